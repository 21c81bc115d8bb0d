// Package mcp implements the Model Context Protocol (MCP) server for the
// notes system.
//
// The server exposes versioned note management to AI assistants over a
// JSON-RPC 2.0 stdio transport. It wires together the version store, the
// fuzzy search index and the optional vector index, and registers one
// tool per user-facing operation:
//
//   - store_note: create a new version of a note
//   - retrieve_note: read the latest or a specific version
//   - list_projects: enumerate projects
//   - list_notes: enumerate notes in a project with latest versions
//   - search_notes: fuzzy search across titles and content
//   - semantic_search: embedding-based nearest-note search
//   - rebuild_index: full re-scan of the note directory
//   - delete_note: remove one version or all versions
//   - get_deep_link: shareable URL into the web interface
//
// Tool responses are human-readable text rather than structured JSON,
// since the primary consumer is a language model reading the output.
// Domain failures (a missing note, an empty project) come back as text
// in the result; only malformed requests become protocol errors.
package mcp
