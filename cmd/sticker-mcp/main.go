package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/sticker-tools-mcp/internal/config"
	"github.com/ironsheep/sticker-tools-mcp/internal/logging"
	"github.com/ironsheep/sticker-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("sticker-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("sticker-tools-mcp - MCP server that turns images into stickers")
			fmt.Println()
			fmt.Println("Usage: sticker-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  STICKER_MCP_LOG_LEVEL=debug        Log level (debug, info, warn, error)")
			fmt.Println("  STICKER_MCP_CONFIG=/path/cfg.yaml  Sticker defaults from a config file")
			fmt.Println("  STICKER_STICKER_BORDER_SIZE=12     Override a single sticker default")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// stdout is the MCP transport, so logging.New always writes to stderr.
	logger, err := logging.New("release", os.Getenv("STICKER_MCP_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	cfg, err := config.Load(os.Getenv("STICKER_MCP_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Debug("starting MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	srv := server.New(logger, Version, cfg.Sticker)
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
