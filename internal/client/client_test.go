package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

func setupTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	log, err := logger.New(logger.LogConfig{
		Level:  "debug",
		Format: "text",
		Output: "stdout",
	})
	require.NoError(t, err)

	client := NewClient(ClientConfig{
		ServiceURL: server.URL,
		Timeout:    2 * time.Second,
	}, log)

	return client, server
}

func TestClient_VerifyGender(t *testing.T) {
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/verify-gender", r.URL.Path)

		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "selfie.jpg", header.Filename)
		assert.Equal(t, []byte("jpeg bytes"), data)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"gender": "female", "confidence": 0.91})
	})
	defer server.Close()

	resp, err := client.VerifyGender(context.Background(), []byte("jpeg bytes"), "/tmp/selfie.jpg")
	require.NoError(t, err)
	assert.Equal(t, "female", resp.Gender)
	assert.InDelta(t, 0.91, resp.Confidence, 1e-9)
}

func TestClient_VerifyGender_APIError(t *testing.T) {
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"gender":null,"error":"No face detected"}`))
	})
	defer server.Close()

	_, err := client.VerifyGender(context.Background(), []byte("x"), "a.png")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "No face detected", apiErr.Message)
	assert.True(t, apiErr.NoFace())
	assert.False(t, apiErr.Temporary())
}

func TestClient_VerifyGender_EmptyImage(t *testing.T) {
	client := NewClient(ClientConfig{ServiceURL: "http://127.0.0.1:1"}, logger.NewNopLogger())

	_, err := client.VerifyGender(context.Background(), nil, "a.jpg")
	assert.Error(t, err)
}

func TestClient_VerifyGenderWithRetry(t *testing.T) {
	var attempts atomic.Int32
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"Models not loaded"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"gender": "male", "confidence": 0.8})
	})
	defer server.Close()

	resp, err := client.VerifyGenderWithRetry(context.Background(), []byte("x"), "a.jpg", 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "male", resp.Gender)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_VerifyGenderWithRetry_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid image data"}`))
	})
	defer server.Close()

	_, err := client.VerifyGenderWithRetry(context.Background(), []byte("x"), "a.jpg", 3, 10*time.Millisecond)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_VerifyGenderWithRetry_Exhausted(t *testing.T) {
	var attempts atomic.Int32
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.VerifyGenderWithRetry(context.Background(), []byte("x"), "a.jpg", 1, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 retries")
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_VerifyGenderWithRetry_ContextCancelled(t *testing.T) {
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.VerifyGenderWithRetry(ctx, []byte("x"), "a.jpg", 10, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_HealthCheck(t *testing.T) {
	ready := atomic.Bool{}
	client, server := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health/ready", r.URL.Path)
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	assert.Error(t, client.HealthCheck(context.Background()))

	ready.Store(true)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{ServiceURL: "http://localhost:8000/", APIPrefix: "v1/"}, logger.NewNopLogger())

	assert.Equal(t, "http://localhost:8000", client.serviceURL)
	assert.Equal(t, "/v1", client.apiPrefix)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
}
