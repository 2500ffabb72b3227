package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate validates the configuration with detailed error messages
func (c *Config) Validate() error {
	var errors []string

	if c.Service.Name == "" {
		errors = append(errors, "service.name is required")
	}
	if !strings.HasPrefix(c.Service.APIPrefix, "/") {
		errors = append(errors, fmt.Sprintf("service.api_prefix must start with '/', got: %q", c.Service.APIPrefix))
	}

	// Validate server settings
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("server.port must be between 0 and 65535, got: %d", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errors = append(errors, fmt.Sprintf("server.max_upload_bytes must be > 0, got: %d", c.Server.MaxUploadBytes))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errors = append(errors, "server.read_timeout and server.write_timeout must be >= 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("server.shutdown_timeout must be > 0, got: %v", c.Server.ShutdownTimeout))
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerSecond <= 0 {
			errors = append(errors, fmt.Sprintf("server.rate_limit.requests_per_second must be > 0, got: %.2f", c.Server.RateLimit.RequestsPerSecond))
		}
		if c.Server.RateLimit.Burst <= 0 {
			errors = append(errors, fmt.Sprintf("server.rate_limit.burst must be > 0, got: %d", c.Server.RateLimit.Burst))
		}
	}

	// Validate model settings
	if c.Models.FaceDetector.Architecture == "" || c.Models.FaceDetector.Weights == "" {
		errors = append(errors, "models.face_detector.architecture and models.face_detector.weights are required")
	}
	if c.Models.Gender.Architecture == "" || c.Models.Gender.Weights == "" {
		errors = append(errors, "models.gender_classifier.architecture and models.gender_classifier.weights are required")
	}
	if c.Models.Instances < 1 {
		errors = append(errors, fmt.Sprintf("models.instances must be >= 1, got: %d", c.Models.Instances))
	}

	// Validate detection settings
	if c.Detection.ConfidenceThreshold < 0 || c.Detection.ConfidenceThreshold > 1 {
		errors = append(errors, fmt.Sprintf("detection.confidence_threshold must be between 0 and 1, got: %.2f", c.Detection.ConfidenceThreshold))
	}
	if c.Detection.Padding < 0 {
		errors = append(errors, fmt.Sprintf("detection.padding must be >= 0, got: %d", c.Detection.Padding))
	}
	if c.Detection.MaxImagePixels < 0 {
		errors = append(errors, fmt.Sprintf("detection.max_image_pixels must be >= 0, got: %d", c.Detection.MaxImagePixels))
	}

	if c.Health.MaxGoroutines < 0 {
		errors = append(errors, fmt.Sprintf("health.max_goroutines must be >= 0, got: %d", c.Health.MaxGoroutines))
	}

	// Validate log settings
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errors = append(errors, fmt.Sprintf("invalid log.level: %s (must be: debug, info, warn, error, fatal)", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errors = append(errors, fmt.Sprintf("invalid log.format: %s (must be: text or json)", c.Log.Format))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Resolve returns the path of a model file, relative names being joined
// to the models directory.
func (m *ModelsConfig) Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.Dir, name)
}
