package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/watermark-mcp/internal/config"
	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/logging"
	"github.com/ironsheep/watermark-mcp/internal/server"
	"github.com/ironsheep/watermark-mcp/internal/session"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
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
			fmt.Printf("watermark-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("watermark-mcp - MCP server for text and logo watermarking")
			fmt.Println()
			fmt.Println("Usage: watermark-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  WATERMARK_MCP_LOG_LEVEL=debug         Log level (default info)")
			fmt.Println("  WATERMARK_MCP_LOG_FORMAT=console      Human-readable logs (default json)")
			fmt.Println("  WATERMARK_FONT_DIRS=dir1:dir2         Extra font directories")
			fmt.Println("  WATERMARK_DEFAULT_FONT=arial.ttf      Initial font")
			fmt.Println("  WATERMARK_DEFAULT_FONT_SIZE=30        Initial font size (10-100)")
			fmt.Println("  WATERMARK_DEFAULT_COLOR=#FFFFFF       Initial text color")
			fmt.Println("  WATERMARK_DEFAULT_POSITION=bottom-right")
			fmt.Println("  WATERMARK_JPEG_QUALITY=90             JPEG quality (1-100)")
			fmt.Println("  WATERMARK_FLATTEN_COLOR=#FFFFFF       Backdrop for JPEG export")
			fmt.Println("  WATERMARK_PREVIEW_BACKGROUND=#1E1E1E  Preview region background")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger := logging.New(os.Stderr, cfg.LogLevel)
	if os.Getenv("WATERMARK_MCP_LOG_FORMAT") == "console" {
		logger = logging.NewConsole(os.Stderr, cfg.LogLevel)
	}
	logger.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Bool("env_file", cfg.EnvFile).
		Strs("font_dirs", cfg.Fonts.Dirs).
		Msg("starting watermark-mcp")

	sess := session.New(session.Options{
		Cache:  imaging.NewImageCache(),
		Fonts:  watermark.NewFontResolver(cfg.Fonts.Dirs, logger),
		Logger: logger,
		Export: imaging.ExportOptions{
			JPEGQuality: cfg.Export.JPEGQuality,
			Flatten:     cfg.Export.Flatten,
		},
		Defaults: session.Defaults{
			Font:     cfg.Watermark.Font,
			FontSize: cfg.Watermark.FontSize,
			Color:    &cfg.Watermark.Color,
			Position: &cfg.Watermark.Position,
		},
	})

	srv := server.New(sess, server.Options{
		Version:           Version,
		PreviewBackground: &cfg.Preview.Background,
		Logger:            logger,
	})
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
