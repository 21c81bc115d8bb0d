package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// storeNoteTool returns the tool definition for store_note
func storeNoteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "store_note",
		Description: "Store a new note or update an existing one. Notes are automatically versioned with timestamps; each save creates a new version.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Project or topic name to organize the note",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Title of the note",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content of the note in markdown format",
				},
			},
			Required: []string{"project", "title", "content"},
		},
	}
}

// retrieveNoteTool returns the tool definition for retrieve_note
func retrieveNoteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "retrieve_note",
		Description: "Retrieve a note by project and title. By default the latest version is returned; pass a version timestamp for a specific one.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Project or topic name",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Title of the note",
				},
				"version": map[string]interface{}{
					"type":        "string",
					"description": "Optional version timestamp (ISO format) to retrieve a specific version",
				},
			},
			Required: []string{"project", "title"},
		},
	}
}

// listProjectsTool returns the tool definition for list_projects
func listProjectsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_projects",
		Description: "List all available projects",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listNotesTool returns the tool definition for list_notes
func listNotesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_notes",
		Description: "List all notes in a project with each note's latest version timestamp",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Project or topic name",
				},
			},
			Required: []string{"project"},
		},
	}
}

// searchNotesTool returns the tool definition for search_notes
func searchNotesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_notes",
		Description: "Search for notes using fuzzy matching across titles and content. Optionally limit to a specific project.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query text",
				},
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Optional project name to limit search scope",
				},
			},
			Required: []string{"query"},
		},
	}
}

// semanticSearchTool returns the tool definition for semantic_search
func semanticSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "semantic_search",
		Description: "Search for notes by meaning using vector embeddings. Returns the closest notes even when they share no keywords with the query. Requires an embedding backend; without one the search returns no matches.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Optional project name to limit search scope",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     defaultSemanticLimit,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// rebuildIndexTool returns the tool definition for rebuild_index
func rebuildIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rebuild_index",
		Description: "Rebuild the search index for all notes. Useful after importing notes or if search results seem outdated.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// deleteNoteTool returns the tool definition for delete_note
func deleteNoteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note or a specific version of a note. Without a version parameter this deletes ALL versions of the note.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Project or topic name",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Note title",
				},
				"version": map[string]interface{}{
					"type":        "string",
					"description": "Optional version timestamp (ISO format). If not provided, deletes ALL versions of the note.",
				},
			},
			Required: []string{"project", "title"},
		},
	}
}

// getDeepLinkTool returns the tool definition for get_deep_link
func getDeepLinkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_deep_link",
		Description: "Generate a shareable deep link to a project or note in the web interface",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Project or topic name",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional note title (if not provided, links to project view)",
				},
				"version": map[string]interface{}{
					"type":        "string",
					"description": "Optional version timestamp for a specific note version",
				},
				"web_server_url": map[string]interface{}{
					"type":        "string",
					"description": "Base URL of the web server (default: " + DefaultWebURL + ")",
				},
			},
			Required: []string{"project"},
		},
	}
}
