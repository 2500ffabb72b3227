package web

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devyanshnandeshwar/ghostly-app/internal/detector"
)

const uploadField = "image"

// verifyResponse is the JSON body of /verify-gender. Gender is a pointer so
// that failed detections serialize it as null.
type verifyResponse struct {
	Gender     *detector.Gender `json:"gender"`
	Confidence *float64         `json:"confidence,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// handleVerifyGender accepts a multipart upload and classifies the first face
func (s *Server) handleVerifyGender(c *gin.Context) {
	log := s.Logger().WithFields("request_id", c.GetString(requestIDKey))

	limit := s.config.MaxUploadBytes
	if limit > 0 {
		if c.Request.ContentLength > limit {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open upload", "error", err, "filename", header.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read upload", "error", err, "filename", header.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	start := time.Now()
	result := s.predictor.Predict(data)

	log.Debug("Prediction finished",
		"filename", header.Filename,
		"bytes", len(data),
		"outcome", result.Outcome,
		"duration", time.Since(start),
	)

	status, body := resultResponse(result)
	c.JSON(status, body)
}

// resultResponse maps a pipeline result onto the HTTP status and body
func resultResponse(r detector.Result) (int, interface{}) {
	switch r.Outcome {
	case detector.OutcomeSuccess:
		gender, confidence := r.Gender, r.Confidence
		return http.StatusOK, verifyResponse{Gender: &gender, Confidence: &confidence}
	case detector.OutcomeNoFaceDetected, detector.OutcomeInvalidFaceRegion:
		return http.StatusUnprocessableEntity, verifyResponse{Error: r.Message}
	case detector.OutcomeInvalidImage:
		return http.StatusBadRequest, gin.H{"error": detector.MessageInvalidImage}
	default:
		return http.StatusServiceUnavailable, gin.H{"error": detector.MessageNotLoaded}
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": s.serviceInfo.Name + " is Running"})
}

// handleHealth reports process liveness together with model state
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       s.serviceInfo.Name,
		"version":       s.version,
		"models_loaded": s.predictor.Ready(),
	})
}

func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// handleReadiness is 503 until the models are loaded
func (s *Server) handleReadiness(c *gin.Context) {
	if s.health == nil {
		ready := s.predictor.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":     ready,
			"timestamp": time.Now(),
		})
		return
	}

	report := s.health.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":    report.Status,
		"ready":     report.Ready(),
		"timestamp": report.Timestamp,
		"checks":    report.Checks,
	})
}
