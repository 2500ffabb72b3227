package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/devyanshnandeshwar/ghostly-app/internal/detector"
)

var predictCmd = &cobra.Command{
	Use:   "predict <image-file>",
	Short: "Classify the first face in a local image without starting the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	// stdout carries the result
	logCfg := cfg.Log
	if logCfg.Output == "" || logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	log, err := newLogger(logCfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	det, models, err := buildDetector(cfg, log)
	if err != nil {
		return err
	}
	defer models.Close()

	result := det.Predict(data)
	if err := writeResult(out, result); err != nil {
		return err
	}

	if !result.Success() {
		return fmt.Errorf("prediction failed: %s", result.Outcome)
	}
	return nil
}

func writeResult(out io.Writer, result detector.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
