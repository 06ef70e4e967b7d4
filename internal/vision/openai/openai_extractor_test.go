package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/config"
	"docrecon/internal/port"
	"docrecon/internal/vision"
	"docrecon/internal/vision/openai"
)

func newTestExtractor(serverURL string) *openai.Extractor {
	return openai.NewExtractorWithEndpoint(&config.VisionProviderConfig{
		Provider:    "openai",
		APIKey:      "sk-test",
		TimeoutSecs: 30,
	}, serverURL)
}

func TestOpenAIExtractor_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		content := messages[1].(map[string]interface{})["content"].([]interface{})
		img := content[1].(map[string]interface{})["image_url"].(map[string]interface{})
		assert.True(t, strings.HasPrefix(img["url"].(string), "data:image/jpeg;base64,"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": `{"text":"Invoice 42"}`}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	out, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Image: []byte("jpeg"), ContentType: "image/jpeg", PageNumber: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "Invoice 42", out.Text)
	assert.Equal(t, "gpt-4o", out.ModelUsed)
}

func TestOpenAIExtractor_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Image: []byte("x"), ContentType: "image/png",
	})

	var rlErr *vision.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
}

func TestOpenAIExtractor_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Image: []byte("x"), ContentType: "image/png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
