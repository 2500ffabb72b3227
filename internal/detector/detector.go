package detector

import (
	"errors"
	"time"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

// Outcome tags the result of one prediction
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeNoFaceDetected     Outcome = "no_face_detected"
	OutcomeInvalidImage       Outcome = "invalid_image"
	OutcomeServiceUnavailable Outcome = "service_unavailable"
	OutcomeInvalidFaceRegion  Outcome = "invalid_face_region"
)

const (
	MessageNoFace          = "No face detected"
	MessageInvalidImage    = "Invalid image data"
	MessageNotLoaded       = "Models not loaded"
	MessageEmptyFaceRegion = "Face region is empty"
)

// Result is the outcome of a single prediction. Gender and Confidence are
// only set on success.
type Result struct {
	Outcome    Outcome        `json:"outcome"`
	Gender     Gender         `json:"gender,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Message    string         `json:"message,omitempty"`
	Face       *FaceCandidate `json:"face,omitempty"`
	Region     *BoundingBox   `json:"region,omitempty"`
}

// Success reports whether a gender was produced
func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// Options tunes the pipeline. Zero values select the defaults.
type Options struct {
	ConfidenceThreshold float64
	Padding             int
	MaxImagePixels      int
}

// Detector runs the decode, locate, crop and classify pipeline over loaded
// models. It holds no per-request state and is safe for concurrent use.
type Detector struct {
	models *Models
	opts   Options
	logger *logger.Logger
}

// New creates a detector over models. Models may still be unloaded; every
// prediction then reports service_unavailable.
func New(models *Models, opts Options, log *logger.Logger) *Detector {
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.Padding == 0 {
		opts.Padding = DefaultPadding
	}
	if opts.MaxImagePixels <= 0 {
		opts.MaxImagePixels = DefaultMaxImagePixels
	}
	return &Detector{
		models: models,
		opts:   opts,
		logger: log,
	}
}

// Ready reports whether both networks are loaded
func (d *Detector) Ready() bool {
	return d.models != nil && d.models.Ready()
}

// Predict classifies the first face found in the encoded image
func (d *Detector) Predict(data []byte) Result {
	if !d.Ready() {
		return unavailable()
	}

	start := time.Now()

	img, err := DecodeImage(data, d.opts.MaxImagePixels)
	if err != nil {
		d.logger.Debug("Image decode failed", "bytes", len(data), "error", err)
		return Result{Outcome: OutcomeInvalidImage, Message: MessageInvalidImage}
	}
	d.logger.Debug("Image decoded",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"duration", time.Since(start),
	)

	stage := time.Now()
	candidates, err := NewFaceLocator(d.models.FaceNetwork()).DetectFaces(img, d.opts.ConfidenceThreshold)
	if err != nil {
		return d.failure("face detection", err)
	}
	d.logger.Debug("Face detection finished",
		"faces", len(candidates),
		"duration", time.Since(stage),
	)
	if len(candidates) == 0 {
		return Result{Outcome: OutcomeNoFaceDetected, Message: MessageNoFace}
	}

	face := candidates[0]
	crop, region, err := ExtractFace(img, face, d.opts.Padding)
	if err != nil {
		return d.failure("face extraction", err)
	}

	stage = time.Now()
	gender, confidence, err := NewGenderClassifier(d.models.GenderNetwork()).Classify(crop)
	if err != nil {
		return d.failure("gender classification", err)
	}
	d.logger.Debug("Gender classified",
		"gender", gender,
		"confidence", confidence,
		"duration", time.Since(stage),
		"total", time.Since(start),
	)

	return Result{
		Outcome:    OutcomeSuccess,
		Gender:     gender,
		Confidence: confidence,
		Face:       &face,
		Region:     &region,
	}
}

func (d *Detector) failure(stage string, err error) Result {
	switch {
	case errors.Is(err, ErrEmptyRegion):
		d.logger.Debug("Face region is empty", "stage", stage)
		return Result{Outcome: OutcomeInvalidFaceRegion, Message: MessageEmptyFaceRegion}
	case errors.Is(err, ErrInvalidImage):
		return Result{Outcome: OutcomeInvalidImage, Message: MessageInvalidImage}
	default:
		d.logger.Error("Inference failed", "stage", stage, "error", err)
		return unavailable()
	}
}

func unavailable() Result {
	return Result{Outcome: OutcomeServiceUnavailable, Message: MessageNotLoaded}
}
