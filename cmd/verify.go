package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devyanshnandeshwar/ghostly-app/internal/client"
)

type verifyOptions struct {
	URL        string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

var verifyOpts verifyOptions

var verifyCmd = &cobra.Command{
	Use:   "verify <image-file>",
	Short: "Send an image to a running verification service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), cmd.OutOrStdout(), args[0], verifyOpts)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyOpts.URL, "url", "http://localhost:8000", "Base URL of the verification service")
	verifyCmd.Flags().DurationVar(&verifyOpts.Timeout, "timeout", 5*time.Second, "Per request timeout")
	verifyCmd.Flags().IntVar(&verifyOpts.Retries, "retries", 1, "Retries on network errors and 5xx responses")
	verifyCmd.Flags().DurationVar(&verifyOpts.RetryDelay, "retry-delay", 500*time.Millisecond, "Delay between retries")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(ctx context.Context, out io.Writer, path string, opts verifyOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	logCfg := cfg.Log
	logCfg.Output = "stderr"
	log, err := newLogger(logCfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	c := client.NewClient(client.ClientConfig{
		ServiceURL: opts.URL,
		APIPrefix:  cfg.Service.APIPrefix,
		Timeout:    opts.Timeout,
	}, log)

	resp, err := c.VerifyGenderWithRetry(ctx, data, path, opts.Retries, opts.RetryDelay)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		_ = enc.Encode(map[string]interface{}{
			"status": apiErr.StatusCode,
			"error":  apiErr.Message,
		})
		return err
	}
	if err != nil {
		return err
	}

	return enc.Encode(resp)
}
