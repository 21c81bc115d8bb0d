package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/gonotes-mcp/internal/notes"
	"github.com/dshills/gonotes-mcp/internal/searcher"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeRebuildInProgress = -32001 // Another rebuild is already running
	ErrorCodeEmptyQuery        = -32004 // Query parameter is empty
)

// searchResultLimit caps how many fuzzy matches a search_notes call
// reports in full; matches beyond it are summarized as a count.
const searchResultLimit = 10

// defaultSemanticLimit is how many nearest notes semantic_search
// returns when the caller doesn't ask for a specific count.
const defaultSemanticLimit = 5

// handleStoreNote handles the store_note tool invocation.
func (s *Server) handleStoreNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	// Presence only: empty content is a domain error the store reports.
	content, ok := args["content"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing",
		})
	}

	path, _, err := s.store.Store(ctx, project, title, content)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error storing note: %s", err)), nil
	}

	s.refreshAfterStore(ctx, project, title, content)

	return mcp.NewToolResultText(fmt.Sprintf("Note stored successfully at: %s", path)), nil
}

// refreshAfterStore keeps both indexes in sync with a new version. The
// note is already durably stored, so index failures are logged rather
// than surfaced to the client.
func (s *Server) refreshAfterStore(ctx context.Context, project, title, content string) {
	if _, err := s.searcher.Rebuild(ctx); err != nil && !errors.Is(err, searcher.ErrRebuildInProgress) {
		s.logger.Warn("failed to rebuild search index after store", "error", err)
	}
	if err := s.vectors.AddOrUpdate(ctx, project, title, content, nil); err != nil {
		s.logger.Warn("failed to update vector index after store", "error", err)
	}
}

// handleRetrieveNote handles the retrieve_note tool invocation.
func (s *Server) handleRetrieveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	version := getStringDefault(args, "version", "")

	note, err := s.store.Retrieve(ctx, project, title, version)
	if err != nil {
		if errors.Is(err, notes.ErrNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf("Note not found: %s", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Error retrieving note: %s", err)), nil
	}

	text := fmt.Sprintf("# %s\n\n**Project:** %s\n**Version:** %s\n\n---\n\n%s",
		title, project, note.Timestamp, note.Content)
	return mcp.NewToolResultText(text), nil
}

// handleListProjects handles the list_projects tool invocation.
func (s *Server) handleListProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error listing projects: %s", err)), nil
	}
	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects found."), nil
	}

	var b strings.Builder
	b.WriteString("Available projects:")
	for _, p := range projects {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleListNotes handles the list_notes tool invocation.
func (s *Server) handleListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}

	summaries, err := s.store.ListNotes(ctx, project)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error listing notes: %s", err)), nil
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No notes found in project '%s'.", project)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Notes in project '%s':\n", project)
	for _, n := range summaries {
		fmt.Fprintf(&b, "- %s (latest: %s)\n", n.Title, n.LatestVersion)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleSearchNotes handles the search_notes tool invocation.
func (s *Server) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := requireString(args, "query")
	if err != nil {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	project := getStringDefault(args, "project", "")

	// Build the index lazily if nothing has populated it yet.
	if s.searcher.Count() == 0 {
		if _, err := s.searcher.Rebuild(ctx); err != nil && !errors.Is(err, searcher.ErrRebuildInProgress) {
			return mcp.NewToolResultText(fmt.Sprintf("Error searching notes: %s", err)), nil
		}
	}

	results := s.searcher.Search(query, project, searcher.DefaultThreshold)
	if len(results) == 0 {
		scope := "across all projects"
		if project != "" {
			scope = fmt.Sprintf("in project '%s'", project)
		}
		return mcp.NewToolResultText(fmt.Sprintf("No results found for '%s' %s.", query, scope)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for '%s':\n\n", query)
	shown := results
	if len(shown) > searchResultLimit {
		shown = shown[:searchResultLimit]
	}
	for i, r := range shown {
		fmt.Fprintf(&b, "%d. **%s** (Project: %s)\n", i+1, r.Title, r.Project)
		fmt.Fprintf(&b, "   Score: %.1f%%\n", float64(r.Score))
		fmt.Fprintf(&b, "   %s\n\n", r.Excerpt)
	}
	if len(results) > searchResultLimit {
		fmt.Fprintf(&b, "... and %d more results", len(results)-searchResultLimit)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleSemanticSearch handles the semantic_search tool invocation.
func (s *Server) handleSemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := requireString(args, "query")
	if err != nil {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	project := getStringDefault(args, "project", "")
	limit := getIntDefault(args, "limit", defaultSemanticLimit)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.vectors.Search(ctx, query, project, limit)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error searching notes: %s", err)), nil
	}
	if len(results) == 0 {
		scope := "across all projects"
		if project != "" {
			scope = fmt.Sprintf("in project '%s'", project)
		}
		return mcp.NewToolResultText(fmt.Sprintf("No semantic matches found for '%s' %s.", query, scope)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Semantic search results for '%s':\n\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. **%s** (Project: %s)\n", i+1, r.Metadata["title"], r.Metadata["project"])
		fmt.Fprintf(&b, "   Distance: %.4f\n", r.Distance)
		fmt.Fprintf(&b, "   %s\n\n", contentPreview(r.Content))
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// handleRebuildIndex handles the rebuild_index tool invocation.
func (s *Server) handleRebuildIndex(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := s.searcher.Rebuild(ctx)
	if err != nil {
		if errors.Is(err, searcher.ErrRebuildInProgress) {
			return nil, newMCPError(ErrorCodeRebuildInProgress, "another rebuild is already running", nil)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Error rebuilding index: %s", err)), nil
	}

	if _, err := s.vectors.RebuildAll(ctx); err != nil {
		s.logger.Warn("failed to rebuild vector index", "error", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Search index rebuilt successfully. Indexed %d notes.", count)), nil
}

// handleDeleteNote handles the delete_note tool invocation.
func (s *Server) handleDeleteNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	title, err := requireString(args, "title")
	if err != nil {
		return nil, err
	}
	version := getStringDefault(args, "version", "")

	result, err := s.store.Delete(ctx, project, title, version)
	if err != nil {
		if errors.Is(err, notes.ErrNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf("Error: %s", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Error deleting note: %s", err)), nil
	}

	s.refreshAfterDelete(ctx, project, title)

	if result.Count == 1 {
		return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted 1 file: %s", result.Paths[0])), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully deleted %d files:\n", result.Count)
	for i, p := range result.Paths {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  - %s", p)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// refreshAfterDelete re-syncs both indexes once versions have been
// removed. If older versions of the note survive, the vector entry is
// re-pointed at the new latest; otherwise it is dropped.
func (s *Server) refreshAfterDelete(ctx context.Context, project, title string) {
	if _, err := s.searcher.Rebuild(ctx); err != nil && !errors.Is(err, searcher.ErrRebuildInProgress) {
		s.logger.Warn("failed to rebuild search index after delete", "error", err)
	}

	note, err := s.store.Retrieve(ctx, project, title, "")
	switch {
	case err == nil:
		if err := s.vectors.AddOrUpdate(ctx, project, title, note.Content, nil); err != nil {
			s.logger.Warn("failed to update vector index after delete", "error", err)
		}
	case errors.Is(err, notes.ErrNotFound):
		if err := s.vectors.Delete(ctx, project, title); err != nil {
			s.logger.Warn("failed to remove note from vector index", "error", err)
		}
	default:
		s.logger.Warn("failed to refresh vector index after delete", "error", err)
	}
}

// handleGetDeepLink handles the get_deep_link tool invocation.
func (s *Server) handleGetDeepLink(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	title := getStringDefault(args, "title", "")
	version := getStringDefault(args, "version", "")
	baseURL := getStringDefault(args, "web_server_url", s.webURL)

	return mcp.NewToolResultText(DeepLink(baseURL, project, title, version)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requireString extracts a mandatory non-empty string parameter.
func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// contentPreview truncates note content for inline display.
func contentPreview(content string) string {
	const maxPreview = 200
	content = strings.ReplaceAll(content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxPreview {
		return content
	}
	return string(runes[:maxPreview]) + "..."
}
