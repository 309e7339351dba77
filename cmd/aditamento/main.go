package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/aditamento-extractor/internal/app"
	"github.com/a3tai/aditamento-extractor/internal/config"
	"github.com/a3tai/aditamento-extractor/internal/export"
	"github.com/a3tai/aditamento-extractor/internal/mcp"
	"github.com/a3tai/aditamento-extractor/internal/source"
	"github.com/a3tai/aditamento-extractor/internal/web"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runner is a long-running surface that stops when its context is cancelled
type runner interface {
	Run(ctx context.Context) error
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server runner, logger *slog.Logger) error {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.Info("main.signal", "signal", sig.String())
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}

	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	logger.Info("main.server.stopped")
	return nil
}

// runBatch processes the configured documents once, prints the text table
// to out and writes every export artifact into cfg.OutputDir when set
func runBatch(ctx context.Context, cfg *config.Config, svc *app.Service, out io.Writer, logger *slog.Logger) error {
	var batch source.Batch = source.RemoteSelection{Names: cfg.RemoteNames}
	if len(cfg.Files) > 0 {
		batch = source.LocalFiles{Paths: cfg.Files}
	}

	rep := svc.Process(ctx, batch)
	for _, msg := range rep.Messages() {
		logger.Warn("batch.document.failed", "message", msg)
	}
	logger.Info("batch.process.done",
		"mode", batch.Mode(),
		"rows", rep.Len(),
		"failures", rep.Failures.Summary(),
	)

	table, err := svc.Export(rep, export.FormatText)
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	if _, err := out.Write(table); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if cfg.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, config.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, format := range []export.Format{export.FormatCSV, export.FormatText, export.FormatXLSX} {
		data, err := svc.Export(rep, format)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}

		path := filepath.Join(cfg.OutputDir, format.FileName())
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("batch.export.written", "path", path, "bytes", len(data))
	}

	return nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	svc, err := app.NewService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case cfg.IsBatchMode():
		return runBatch(ctx, cfg, svc, os.Stdout, logger)

	case cfg.IsStdioMode():
		// In stdio mode, the parent process controls our lifecycle
		server, err := mcp.NewServer(cfg, svc, logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		return server.Run(ctx)

	case cfg.IsServerMode():
		server, err := web.NewServer(cfg, svc, logger)
		if err != nil {
			return fmt.Errorf("failed to create web server: %w", err)
		}
		return runServerMode(ctx, cancel, server, logger)

	default:
		return fmt.Errorf("unsupported mode: %s", cfg.Mode)
	}
}

func main() {
	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion()
		return
	}
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("main.config", "config", cfg.String())

	if err := run(cfg, logger); err != nil {
		logger.Error("main.exit", "error", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Aditamento Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
