package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devyanshnandeshwar/ghostly-app/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var (
	// cfg is loaded once by the root command before any subcommand runs
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "ghostly-ai",
	Short:         "Face detection and gender verification service",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// SetBuildInfo records values injected at link time
func SetBuildInfo(v, built, commit string) {
	if v != "" {
		version = v
		rootCmd.Version = v
	}
	if built != "" {
		buildTime = built
	}
	if commit != "" {
		gitCommit = commit
	}
}

// Execute runs the root command with a context cancelled by SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: search ./config, ../config, /etc/ghostly-ai)")
}
