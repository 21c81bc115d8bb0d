// Package types provides shared type definitions for the GoNotes MCP server.
//
// This package defines the domain types passed between the notes store,
// the search indexes, and the MCP adapter.
//
// # Core Types
//
// Note is one immutable version of a note:
//
//	note := types.Note{
//	    Project:   "Python Learning",
//	    Title:     "AsyncIO Basics",
//	    Content:   "# AsyncIO\n...",
//	    Timestamp: "2025-08-28T14:03:02.118204",
//	}
//
// A logical note is the set of all versions sharing (Project, Title);
// it has no existence apart from its versions.
//
// # Search Results
//
// SearchResult carries a lexical (fuzzy) hit with a 0-100 partial-ratio
// score and a context excerpt. SemanticResult carries a vector search
// hit ranked by backend-defined distance, lower being closer.
package types
