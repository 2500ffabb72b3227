package cmd

import (
	"fmt"

	"github.com/devyanshnandeshwar/ghostly-app/internal/config"
	"github.com/devyanshnandeshwar/ghostly-app/internal/detector"
	"github.com/devyanshnandeshwar/ghostly-app/internal/dnn"
	"github.com/devyanshnandeshwar/ghostly-app/internal/health"
	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

func newLogger(c config.LogConfig) (*logger.Logger, error) {
	log, err := logger.New(logger.LogConfig{
		Level:      c.Level,
		Format:     c.Format,
		Output:     c.Output,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// modelsConfig resolves the configured model files against the models directory
func modelsConfig(c *config.ModelsConfig) detector.ModelsConfig {
	return detector.ModelsConfig{
		Face: detector.ModelSpec{
			Name:         detector.FaceModelName,
			Architecture: c.Resolve(c.FaceDetector.Architecture),
			Weights:      c.Resolve(c.FaceDetector.Weights),
		},
		Gender: detector.ModelSpec{
			Name:         detector.GenderModelName,
			Architecture: c.Resolve(c.Gender.Architecture),
			Weights:      c.Resolve(c.Gender.Weights),
		},
		Instances: c.Instances,
	}
}

// buildDetector wires the OpenCV opener, the model set and the pipeline.
// Models are loaded here; a load failure is logged and leaves the detector
// answering service_unavailable.
func buildDetector(c *config.Config, log *logger.Logger) (*detector.Detector, *detector.Models, error) {
	opener, err := dnn.NewOpener(dnn.Config{
		Backend: c.Models.Backend,
		Target:  c.Models.Target,
	}, log.Named("dnn"))
	if err != nil {
		return nil, nil, err
	}

	models := detector.NewModels(modelsConfig(&c.Models), opener, log.Named("models"))
	if err := models.Load(); err != nil {
		log.Warn("Models not loaded, predictions will be rejected", "error", err)
	}

	det := detector.New(models, detector.Options{
		ConfidenceThreshold: c.Detection.ConfidenceThreshold,
		Padding:             c.Detection.Padding,
		MaxImagePixels:      c.Detection.MaxImagePixels,
	}, log.Named("detector"))

	return det, models, nil
}

func healthCheckers(c *config.Config, models health.ModelState) []health.Checker {
	return []health.Checker{
		health.NewModelsChecker(models),
		&health.SystemChecker{MaxGoroutines: c.Health.MaxGoroutines},
	}
}
