// File: internal/generator/client_test.go
package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

func newTestOllama(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testGenConfig()
	cfg.BaseURL = server.URL
	client := NewOllamaClient(cfg)
	t.Cleanup(func() { require.NoError(t, client.Close()) })
	return client
}

func TestOllamaGenerate(t *testing.T) {
	var gotReq generateRequest
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "  Ranch-style stone home with a circular driveway.  "})
	})

	text, err := client.Generate(context.Background(), schemas.GenerationRequest{
		Model:     "llama3:8b",
		Prompt:    "describe the home",
		MaxTokens: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ranch-style stone home with a circular driveway.", text)
	assert.Equal(t, "llama3:8b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 120, gotReq.Options.NumPredict)
}

func TestOllamaGenerateServerError(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := client.Generate(context.Background(), schemas.GenerationRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestOllamaGenerateEmptyResponse(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	})

	_, err := client.Generate(context.Background(), schemas.GenerationRequest{Prompt: "x"})
	require.Error(t, err)
}

func TestOllamaAvailable(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	})
	assert.True(t, client.Available(context.Background(), time.Second))
}

func TestOllamaAvailableUnreachable(t *testing.T) {
	cfg := testGenConfig()
	cfg.BaseURL = "http://127.0.0.1:1"
	client := NewOllamaClient(cfg)
	defer client.Close()

	assert.False(t, client.Available(context.Background(), 200*time.Millisecond))
}
