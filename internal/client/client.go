package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

const defaultTimeout = 5 * time.Second

// Client is an HTTP client for the gender verification service
type Client struct {
	serviceURL string
	apiPrefix  string
	httpClient *http.Client
	logger     *logger.Logger
}

// ClientConfig contains configuration for the client
type ClientConfig struct {
	ServiceURL string
	APIPrefix  string
	Timeout    time.Duration
}

// VerifyResponse is a successful verification
type VerifyResponse struct {
	Gender     string  `json:"gender"`
	Confidence float64 `json:"confidence"`
}

// APIError is a non-2xx answer from the service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// NoFace reports whether the service found no usable face in the image
func (e *APIError) NoFace() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// NewClient creates a new service client
func NewClient(config ClientConfig, log *logger.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.APIPrefix == "" {
		config.APIPrefix = "/api"
	}

	return &Client{
		serviceURL: strings.TrimRight(config.ServiceURL, "/"),
		apiPrefix:  "/" + strings.Trim(config.APIPrefix, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log,
	}
}

// VerifyGender uploads image and returns the detected gender
func (c *Client) VerifyGender(ctx context.Context, image []byte, filename string) (*VerifyResponse, error) {
	if len(image) == 0 {
		return nil, errors.New("no image provided")
	}
	if filename == "" {
		filename = "image.jpg"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.serviceURL + c.apiPrefix + "/verify-gender"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Sending verification request", "url", url, "bytes", len(image))
	startTime := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		c.logger.Warn("Verification service returned error",
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return nil, apiErr
	}

	var verifyResp VerifyResponse
	if err := json.Unmarshal(respBody, &verifyResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Debug("Verification completed",
		"gender", verifyResp.Gender,
		"confidence", verifyResp.Confidence,
		"request_duration_ms", time.Since(startTime).Milliseconds(),
	)

	return &verifyResp, nil
}

// VerifyGenderWithRetry retries transport failures and 5xx answers. Client
// errors such as 4xx are returned immediately.
func (c *Client) VerifyGenderWithRetry(
	ctx context.Context,
	image []byte,
	filename string,
	maxRetries int,
	retryDelay time.Duration,
) (*VerifyResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("Retrying verification",
				"attempt", attempt,
				"max_retries", maxRetries,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		resp, err := c.VerifyGender(ctx, image, filename)
		if err == nil {
			return resp, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		c.logger.Warn("Verification attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, fmt.Errorf("verification failed after %d retries: %w", maxRetries, lastErr)
}

// HealthCheck checks that the service is ready to serve predictions
func (c *Client) HealthCheck(ctx context.Context) error {
	url := c.serviceURL + "/health/ready"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed: status %d", resp.StatusCode)
	}

	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return strings.TrimSpace(string(body))
}
