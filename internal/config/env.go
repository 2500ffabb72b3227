package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// applyEnvOverrides applies environment variable overrides to configuration.
// Model path variables use the MODEL_PATH_* and GENDER_MODEL_* names.
func applyEnvOverrides(cfg *Config) {
	// Service settings
	if val := os.Getenv("PROJECT_NAME"); val != "" {
		cfg.Service.Name = val
	}
	if val := os.Getenv("API_V1_STR"); val != "" {
		cfg.Service.APIPrefix = val
	}

	// Server settings
	if val := os.Getenv("AI_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("AI_PORT"); val != "" {
		if port, err := parseInt(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("AI_MAX_UPLOAD_BYTES"); val != "" {
		if size, err := parseInt(val); err == nil {
			cfg.Server.MaxUploadBytes = int64(size)
		}
	}
	if val := os.Getenv("AI_SHUTDOWN_TIMEOUT"); val != "" {
		if timeout, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = timeout
		}
	}
	if val := os.Getenv("AI_CORS_ORIGINS"); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.Server.CORS.AllowedOrigins = origins
	}
	if val := os.Getenv("AI_RATE_LIMIT_ENABLED"); val != "" {
		cfg.Server.RateLimit.Enabled = GetEnvBool("AI_RATE_LIMIT_ENABLED", false)
	}
	if val := os.Getenv("AI_RATE_LIMIT_RPS"); val != "" {
		if rps, err := parseFloat64(val); err == nil {
			cfg.Server.RateLimit.RequestsPerSecond = rps
		}
	}

	// Model settings
	if val := os.Getenv("MODEL_DIR"); val != "" {
		cfg.Models.Dir = val
	}
	if val := os.Getenv("MODEL_PATH_PROTO"); val != "" {
		cfg.Models.FaceDetector.Architecture = val
	}
	if val := os.Getenv("MODEL_PATH_WEIGHTS"); val != "" {
		cfg.Models.FaceDetector.Weights = val
	}
	if val := os.Getenv("GENDER_MODEL_PROTO"); val != "" {
		cfg.Models.Gender.Architecture = val
	}
	if val := os.Getenv("GENDER_MODEL_WEIGHTS"); val != "" {
		cfg.Models.Gender.Weights = val
	}
	if val := os.Getenv("AI_MODEL_INSTANCES"); val != "" {
		if n, err := parseInt(val); err == nil {
			cfg.Models.Instances = n
		}
	}
	if val := os.Getenv("AI_MODEL_BACKEND"); val != "" {
		cfg.Models.Backend = val
	}
	if val := os.Getenv("AI_MODEL_TARGET"); val != "" {
		cfg.Models.Target = val
	}

	// Detection settings
	if val := os.Getenv("AI_CONFIDENCE_THRESHOLD"); val != "" {
		if threshold, err := parseFloat64(val); err == nil {
			cfg.Detection.ConfidenceThreshold = threshold
		}
	}
	if val := os.Getenv("AI_FACE_PADDING"); val != "" {
		if padding, err := parseInt(val); err == nil {
			cfg.Detection.Padding = padding
		}
	}
	if val := os.Getenv("AI_MAX_IMAGE_PIXELS"); val != "" {
		if pixels, err := parseInt(val); err == nil {
			cfg.Detection.MaxImagePixels = pixels
		}
	}

	if val := os.Getenv("AI_HEALTH_MAX_GOROUTINES"); val != "" {
		if limit, err := parseInt(val); err == nil {
			cfg.Health.MaxGoroutines = limit
		}
	}

	// Log settings
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv("LOG_OUTPUT"); val != "" {
		cfg.Log.Output = val
	}
}

// Helper functions for parsing environment variables
func parseInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	return result, err
}

func parseFloat64(s string) (float64, error) {
	var result float64
	_, err := fmt.Sscanf(s, "%f", &result)
	return result, err
}

// GetEnvWithDefault gets an environment variable with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable
func GetEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	val = strings.ToLower(val)
	return val == "true" || val == "1" || val == "yes" || val == "on"
}
