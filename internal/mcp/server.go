package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/gonotes-mcp/internal/embedder"
	"github.com/dshills/gonotes-mcp/internal/notes"
	"github.com/dshills/gonotes-mcp/internal/searcher"
	"github.com/dshills/gonotes-mcp/internal/vector"
)

const (
	// ServerName is the MCP server name
	ServerName = "gonotes-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	// ServerInstructions is shown to MCP clients on initialize.
	ServerInstructions = "A server for managing versioned notes organized by projects " +
		"(best practice, a project is a GIT repository name). Notes are automatically " +
		"versioned with timestamps and can be searched using fuzzy matching."

	// EnvDataDir overrides where note files live.
	EnvDataDir = "GONOTES_DATA_DIR"
	// EnvVectorDB overrides where the semantic index database lives.
	EnvVectorDB = "GONOTES_VECTOR_DB"
	// EnvWebURL overrides the default web interface base URL for deep links.
	EnvWebURL = "GONOTES_WEB_URL"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	store    *notes.Store
	searcher *searcher.Index
	vectors  vector.Index
	logger   *log.Logger
	webURL   string
}

// Options configures a Server. Zero values fall back to environment
// variables and then to defaults under ~/.gonotes.
type Options struct {
	DataDir  string
	VectorDB string
	WebURL   string
	Logger   *log.Logger
}

// NewServer creates a new MCP server instance. A failed semantic
// backend is not fatal: the server degrades to lexical search only.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	dataDir, err := resolvePath(opts.DataDir, EnvDataDir, "data")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := notes.New(dataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize note store: %w", err)
	}

	srch := searcher.New(store, logger)

	s := &Server{
		mcp:      newMCPServer(),
		store:    store,
		searcher: srch,
		vectors:  openVectorIndex(opts, store, logger),
		logger:   logger,
		webURL:   resolveWebURL(opts.WebURL),
	}
	s.registerTools()
	return s, nil
}

// newMCPServer builds the underlying protocol server.
func newMCPServer() *server.MCPServer {
	return server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithInstructions(ServerInstructions),
	)
}

// openVectorIndex wires the semantic backend, falling back to the
// no-op index when embeddings are disabled or the backend cannot open.
func openVectorIndex(opts Options, store *notes.Store, logger *log.Logger) vector.Index {
	emb, err := embedder.NewFromEnv()
	if err != nil {
		if errors.Is(err, embedder.ErrEmbeddingDisabled) {
			logger.Info("embeddings disabled, semantic search unavailable")
		} else {
			logger.Warn("failed to initialize embedder, semantic search unavailable", "error", err)
		}
		return vector.NewNoop()
	}

	dbPath, err := resolvePath(opts.VectorDB, EnvVectorDB, "vectors.db")
	if err != nil {
		logger.Warn("failed to resolve vector database path, semantic search unavailable", "error", err)
		return vector.NewNoop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Warn("failed to create vector database directory, semantic search unavailable", "error", err)
		return vector.NewNoop()
	}

	ix, err := vector.NewSQLiteIndex(dbPath, emb, store, logger)
	if err != nil {
		logger.Warn("failed to open vector index, semantic search unavailable", "error", err)
		return vector.NewNoop()
	}
	logger.Info("semantic search enabled", "provider", emb.Provider(), "model", emb.Model())
	return ix
}

// resolvePath picks the first of: explicit value, environment
// variable, ~/.gonotes/<deflt>.
func resolvePath(explicit, envVar, deflt string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gonotes", deflt), nil
}

func resolveWebURL(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(EnvWebURL); v != "" {
		return v
	}
	return DefaultWebURL
}

// Serve builds the initial search index and runs the MCP server on
// stdio until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.vectors.Close() }()

	count, err := s.searcher.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("failed to build initial search index: %w", err)
	}
	s.logger.Info("search index built", "notes", count)

	return server.ServeStdio(s.mcp)
}

// RebuildIndexes rebuilds both search indexes and returns the number
// of notes indexed. The watcher and the rebuild CLI command go
// through here.
func (s *Server) RebuildIndexes(ctx context.Context) (int, error) {
	count, err := s.searcher.Rebuild(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild search index: %w", err)
	}
	s.logger.Debug("search index rebuilt", "notes", count)

	if _, err := s.vectors.RebuildAll(ctx); err != nil {
		s.logger.Warn("failed to rebuild vector index", "error", err)
	}
	return count, nil
}

// DataDir exposes the resolved note directory for the watcher.
func (s *Server) DataDir() string {
	return s.store.BaseDir()
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(storeNoteTool(), s.handleStoreNote)
	s.mcp.AddTool(retrieveNoteTool(), s.handleRetrieveNote)
	s.mcp.AddTool(listProjectsTool(), s.handleListProjects)
	s.mcp.AddTool(listNotesTool(), s.handleListNotes)
	s.mcp.AddTool(searchNotesTool(), s.handleSearchNotes)
	s.mcp.AddTool(semanticSearchTool(), s.handleSemanticSearch)
	s.mcp.AddTool(rebuildIndexTool(), s.handleRebuildIndex)
	s.mcp.AddTool(deleteNoteTool(), s.handleDeleteNote)
	s.mcp.AddTool(getDeepLinkTool(), s.handleGetDeepLink)
}
