package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Server    ServerConfig    `yaml:"server"`
	Models    ModelsConfig    `yaml:"models"`
	Detection DetectionConfig `yaml:"detection"`
	Health    HealthConfig    `yaml:"health"`
	Log       LogConfig       `yaml:"log,omitempty"`
}

// ServiceConfig contains service identity settings
type ServiceConfig struct {
	Name      string `yaml:"name"`
	APIPrefix string `yaml:"api_prefix"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string          `yaml:"host"`
	Port            int             `yaml:"port"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	WriteTimeout    time.Duration   `yaml:"write_timeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes"`
	CORS            CORSConfig      `yaml:"cors"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig contains cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig contains per-client request rate limiting
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ModelsConfig contains network file locations and engine settings
type ModelsConfig struct {
	Dir          string     `yaml:"dir"`
	FaceDetector ModelFiles `yaml:"face_detector"`
	Gender       ModelFiles `yaml:"gender_classifier"`
	Instances    int        `yaml:"instances"`
	Backend      string     `yaml:"backend"`
	Target       string     `yaml:"target"`
}

// ModelFiles names the architecture and weights files of one network.
// Relative paths are resolved against ModelsConfig.Dir.
type ModelFiles struct {
	Architecture string `yaml:"architecture"`
	Weights      string `yaml:"weights"`
}

// DetectionConfig contains pipeline tuning parameters
type DetectionConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	Padding             int     `yaml:"padding"`
	MaxImagePixels      int     `yaml:"max_image_pixels"`
}

// HealthConfig contains health check thresholds
type HealthConfig struct {
	MaxGoroutines int `yaml:"max_goroutines"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads and parses the configuration file, then applies environment
// overrides and defaults. An empty configPath falls back to the default
// locations; if none exists the configuration is built from defaults and
// environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	explicit := configPath != ""
	if !explicit {
		configPath = getDefaultConfigPath()
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration: %w", err)
			}
		case os.IsNotExist(err) && explicit:
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.setDefaults()

	return &cfg, nil
}

// getDefaultConfigPath returns the first existing default configuration path
func getDefaultConfigPath() string {
	paths := []string{
		"./config/config.yaml",
		"../config/config.yaml",
		"/etc/ghostly-ai/config.yaml",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "Ghosty AI Service"
	}
	if c.Service.APIPrefix == "" {
		c.Service.APIPrefix = "/api"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 10 << 20
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if c.Server.RateLimit.RequestsPerSecond == 0 {
		c.Server.RateLimit.RequestsPerSecond = 5
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 10
	}

	if c.Models.Dir == "" {
		c.Models.Dir = "."
	}
	if c.Models.FaceDetector.Architecture == "" {
		c.Models.FaceDetector.Architecture = "opencv_face_detector.pbtxt"
	}
	if c.Models.FaceDetector.Weights == "" {
		c.Models.FaceDetector.Weights = "opencv_face_detector_uint8.pb"
	}
	if c.Models.Gender.Architecture == "" {
		c.Models.Gender.Architecture = "gender_deploy.prototxt"
	}
	if c.Models.Gender.Weights == "" {
		c.Models.Gender.Weights = "gender_net.caffemodel"
	}
	if c.Models.Instances == 0 {
		c.Models.Instances = 1
	}
	if c.Models.Backend == "" {
		c.Models.Backend = "opencv"
	}
	if c.Models.Target == "" {
		c.Models.Target = "cpu"
	}

	if c.Detection.ConfidenceThreshold == 0 {
		c.Detection.ConfidenceThreshold = 0.7
	}
	if c.Detection.Padding == 0 {
		c.Detection.Padding = 20
	}
	if c.Detection.MaxImagePixels == 0 {
		c.Detection.MaxImagePixels = 1 << 26
	}

	if c.Health.MaxGoroutines == 0 {
		c.Health.MaxGoroutines = 10000
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 7
	}
}

// Address returns the host:port the HTTP server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
