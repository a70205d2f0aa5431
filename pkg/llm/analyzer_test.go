package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
)

func testLLMConfig(endpoint string) config.LLMConfig {
	return config.LLMConfig{
		Endpoint:    endpoint,
		APIKey:      "test-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   500,
		Categories:  []string{"technology", "business", "sports"},
	}
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		content := `Here is the analysis:

{
  "summary": "Go 1.24 brings generics improvements and faster compilation for large projects.",
  "keywords": ["Golang", " compilers ", "performance", ""],
  "sentiment": "Positive",
  "category": "Technology"
}`
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(chatResponse(content)))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(testLLMConfig(server.URL + "/v1"))
	analysis, err := analyzer.Analyze(context.Background(), "Go 1.24 released with new features...")
	require.NoError(t, err)

	assert.Contains(t, analysis.Summary, "Go 1.24")
	assert.Equal(t, []string{"golang", "compilers", "performance"}, analysis.Keywords)
	assert.Equal(t, "positive", analysis.Sentiment)
	assert.Equal(t, "technology", analysis.Category)
}

func TestAnalyzer_Analyze_InvalidValuesNormalized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		content := `{"summary":"s","keywords":[],"sentiment":"enthusiastic","category":"gardening"}`
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(chatResponse(content)))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(testLLMConfig(server.URL + "/v1"))
	analysis, err := analyzer.Analyze(context.Background(), "some text")
	require.NoError(t, err)

	assert.Equal(t, "unknown", analysis.Sentiment)
	assert.Equal(t, "unknown", analysis.Category)
}

func TestAnalyzer_Analyze_RetriesBadJSON(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) < 3 {
			require.NoError(t, json.NewEncoder(w).Encode(chatResponse("no json here")))
			return
		}
		content := `{"summary":"recovered","keywords":["k"],"sentiment":"neutral","category":"sports"}`
		require.NoError(t, json.NewEncoder(w).Encode(chatResponse(content)))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(testLLMConfig(server.URL + "/v1"))
	analysis, err := analyzer.Analyze(context.Background(), "match report")
	require.NoError(t, err)
	assert.Equal(t, "recovered", analysis.Summary)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestAnalyzer_Analyze_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(chatResponse("still no json")))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(testLLMConfig(server.URL + "/v1"))
	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)

	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.ErrMalformed, enrichErr.Kind)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestAnalyzer_Analyze_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(testLLMConfig(server.URL + "/v1"))
	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)

	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.ErrRateLimited, enrichErr.Kind)
}

func TestAnalyzer_Analyze_EmptyText(t *testing.T) {
	analyzer := NewAnalyzer(testLLMConfig(""))
	_, err := analyzer.Analyze(context.Background(), "   ")
	require.Error(t, err)

	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	assert.Equal(t, domain.ErrMalformed, enrichErr.Kind)
}

func TestAnalyzer_Model(t *testing.T) {
	analyzer := NewAnalyzer(testLLMConfig(""))
	assert.Equal(t, "gpt-4o-mini", analyzer.Model())
}
