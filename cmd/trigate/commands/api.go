package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haoyuan-z/trigate/internal/api"
	"github.com/haoyuan-z/trigate/internal/api/handlers"
	"github.com/haoyuan-z/trigate/internal/contracts"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health               - Health check
  GET  /api/signals          - Ranked signals (latest or ?date=)
  GET  /api/signals/{code}   - One instrument's signal
  GET  /api/report           - Aggregate report
  POST /api/scan             - Trigger a scan
  GET  /api/scan/status      - Scan status
  GET  /ws                   - Scan progress stream

Example:
  go run ./cmd/trigate api
  go run ./cmd/trigate api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.logger

	if a.repo == nil {
		log.Warn("DATABASE_URL not set, signal endpoints are unavailable")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := a.repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	// A nil *store.Repository must stay a nil interface for the
	// handlers' missing-store checks to work.
	var repo contracts.SignalRepository
	if a.repo != nil {
		repo = a.repo
	}

	// Handlers and progress hub
	hub := api.NewHub(log)
	signalHandler := handlers.NewSignalHandler(repo, a.strategy.Integration.ReportTopN, log)
	scanHandler := handlers.NewScanHandler(a.runner, repo, hub, a.cfg.ExportDir, log)

	router := api.NewRouter(signalHandler, scanHandler, hub, log)
	server := api.New(a.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
