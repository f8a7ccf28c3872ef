package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/errs"
)

const testKeyEnv = "COMPASS_TEST_GEN_KEY"

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func testClientAt(t *testing.T, baseURL string) *Client {
	t.Helper()
	t.Setenv(testKeyEnv, "test-key")
	client, err := NewClient(Config{BaseURL: baseURL, APIKeyEnv: testKeyEnv})
	require.NoError(t, err)
	return client
}

func completionResponse(content string) map[string]any {
	choices := []map[string]any{}
	if content != "" {
		choices = append(choices, map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		})
	}
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   DefaultModel,
		"choices": choices,
	}
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	t.Setenv(testKeyEnv, "")
	_, err := NewClient(Config{APIKeyEnv: testKeyEnv})
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestNewClient_TemperatureDefaulting(t *testing.T) {
	t.Setenv(testKeyEnv, "test-key")

	client, err := NewClient(Config{APIKeyEnv: testKeyEnv})
	require.NoError(t, err)
	assert.InDelta(t, DefaultTemperature, client.temperature, 1e-6)

	zero := float32(0)
	client, err = NewClient(Config{APIKeyEnv: testKeyEnv, Temperature: &zero})
	require.NoError(t, err)
	assert.Zero(t, client.temperature, "an explicit zero must not be replaced by the default")
}

func TestComplete_ReturnsCompletionText(t *testing.T) {
	var gotPrompt string
	var gotRole string
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		gotRole = req.Messages[0].Role
		gotPrompt = req.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completionResponse("Consider the premium credit card.")))
	})

	client := testClientAt(t, srv.URL)
	text, err := client.Complete(context.Background(), "Recommend a product.")
	require.NoError(t, err)
	assert.Equal(t, "Consider the premium credit card.", text)
	assert.Equal(t, "user", gotRole)
	assert.Equal(t, "Recommend a product.", gotPrompt)
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := testClientAt(t, url)
	_, err := client.Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errs.IsGeneration(err))
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completionResponse("")))
	})

	client := testClientAt(t, srv.URL)
	_, err := client.Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errs.IsGeneration(err))
	assert.Contains(t, err.Error(), "no choices")
}
