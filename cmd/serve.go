package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devyanshnandeshwar/ghostly-app/internal/health"
	"github.com/devyanshnandeshwar/ghostly-app/internal/service"
	"github.com/devyanshnandeshwar/ghostly-app/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting "+cfg.Service.Name,
		"version", version,
		"build_time", buildTime,
		"git_commit", gitCommit,
	)

	det, models, err := buildDetector(cfg, log)
	if err != nil {
		return err
	}
	defer models.Close()

	svcMgr := service.NewManager(log)
	svcMgr.SetStopTimeout(cfg.Server.ShutdownTimeout)

	healthMgr := health.NewManager(log, svcMgr)
	for _, checker := range healthCheckers(cfg, models) {
		healthMgr.RegisterChecker(checker)
	}

	server := web.NewServer(cfg.Service, &cfg.Server, det, log.Named("http"))
	server.SetVersion(version)
	server.SetHealthReporter(healthMgr)
	svcMgr.Register(server)

	if err := svcMgr.Start(ctx); err != nil {
		return fmt.Errorf("failed to start services: %w", err)
	}
	if status := svcMgr.GetServiceStatus(server.Name()); status.GetStatus() == service.StatusError {
		return fmt.Errorf("failed to start HTTP server: %w", status.GetError())
	}

	<-ctx.Done()
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := svcMgr.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", "error", err)
		return err
	}

	log.Info("Shutdown complete")
	return nil
}
