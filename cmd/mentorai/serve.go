package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/config"
	"github.com/every-mentor/mentorai/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mentorai server",
	Long: `Start the mentorai HTTP server.

Startup locates the tesseract binary; a missing binary fails fast with the
searched locations. Configuration is hot-reloaded when the config file
changes, including provider API keys.

The server provides:
  /health                     - Basic server health check
  /ready                      - Readiness check (includes OCR engine)
  /status                     - Engine path, version, and registered providers
  POST /api/ocr               - OCR a document image
  POST /api/certificates/resolve - Resolve certificate names
  GET  /api/subjects          - List known exam subjects
  POST /api/curriculum        - Generate a study curriculum from a document

Examples:
  mentorai serve                 # Start on the configured port (default 8090)
  mentorai serve --port 3000     # Start on custom port
  mentorai serve --host 0.0.0.0  # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		cfg := mgr.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8090, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
