package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/gonotes-mcp/internal/mcp"
	"github.com/dshills/gonotes-mcp/internal/vector"
	"github.com/dshills/gonotes-mcp/internal/watcher"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// EnvWatch enables the filesystem watcher during serve when set to 1.
const EnvWatch = "GONOTES_WATCH"

var (
	flagDataDir  string
	flagVectorDB string
	flagWebURL   string
	flagVerbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gonotes",
		Short: "MCP server for versioned, searchable notes",
		Long: "gonotes manages markdown notes organized by project. Every save\n" +
			"creates a new timestamped version, and notes are searchable by\n" +
			"fuzzy matching and, with an embedding backend, by meaning.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running without a subcommand starts the server, so MCP
		// client configs can point straight at the binary.
		RunE: runServe,
	}

	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "note storage directory (default $GONOTES_DATA_DIR or ~/.gonotes/data)")
	root.PersistentFlags().StringVar(&flagVectorDB, "vector-db", "", "semantic index database (default $GONOTES_VECTOR_DB or ~/.gonotes/vectors.db)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&flagWebURL, "web-url", "", "web interface base URL for deep links (default $GONOTES_WEB_URL or "+mcp.DefaultWebURL+")")

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the search indexes and exit",
		RunE:  runRebuild,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gonotes MCP server\n")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "Build Mode: %s\n", vector.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", vector.DriverName)
			fmt.Fprintf(out, "Vector Extension: %v\n", vector.VectorExtensionAvailable)
		},
	}

	root.AddCommand(serveCmd, rebuildCmd, versionCmd)
	return root
}

// newLogger writes to stderr; stdout is reserved for the MCP protocol.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	logger.Info("starting", "version", version, "mode", vector.BuildMode, "driver", vector.DriverName)

	srv, err := mcp.NewServer(mcp.Options{
		DataDir:  flagDataDir,
		VectorDB: flagVectorDB,
		WebURL:   flagWebURL,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv(EnvWatch) == "1" {
		rebuild := func(ctx context.Context) error {
			_, err := srv.RebuildIndexes(ctx)
			return err
		}
		w, err := watcher.New(srv.DataDir(), 0, rebuild, logger)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening on stdio")
		errChan <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	srv, err := mcp.NewServer(mcp.Options{
		DataDir:  flagDataDir,
		VectorDB: flagVectorDB,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	count, err := srv.RebuildIndexes(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("indexes rebuilt", "notes", count)
	return nil
}
