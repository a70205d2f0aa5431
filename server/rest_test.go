package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsrec/pkg/domain"
	"github.com/umputun/newsrec/server/mocks"
)

func testResult() *domain.Result {
	publishedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Result{
		Articles: []domain.ScoredArticle{
			{
				EnrichedArticle: domain.EnrichedArticle{
					Article: domain.Article{
						ID:          "a1",
						Title:       "AI breakthrough",
						URL:         "https://example.com/a1",
						SourceName:  "TechDaily",
						PublishedAt: publishedAt,
					},
					Summary:   "short summary",
					Keywords:  []string{"ai"},
					Sentiment: domain.SentimentPositive,
					Category:  "technology",
				},
				Score:     3.2,
				Breakdown: map[string]float64{"keywords": 2.0, "category": 1.2},
			},
		},
		Meta: domain.Meta{
			RequestID:        "req-1",
			ArticlesFetched:  5,
			ArticlesAnalyzed: 5,
			ProcessingTime:   1500 * time.Millisecond,
			Provider:         "gpt-4o-mini",
		},
	}
}

func TestServer_Recommendations(t *testing.T) {
	recommender := &mocks.RecommenderMock{
		RecommendFunc: func(_ context.Context, profile *domain.PreferenceProfile) (*domain.Result, error) {
			assert.Equal(t, "u1", profile.UserID)
			assert.Equal(t, []string{"technology"}, profile.Categories)
			assert.Equal(t, []string{"ai"}, profile.Keywords)
			assert.Equal(t, []string{"tabloid"}, profile.ExcludedSources)
			assert.Equal(t, 5, profile.MaxArticles)
			assert.Equal(t, []string{"old1"}, profile.SeenArticles)
			return testResult(), nil
		},
	}
	srv := New(testConfig(""), recommender, "test-version", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	body := `{"user_id":"u1","preferred_categories":["technology"],"keywords":["ai"],
		"excluded_sources":["tabloid"],"max_articles":5,"seen_articles":["old1"]}`
	resp, err := ts.Client().Post(ts.URL+"/api/v1/recommendations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got recommendationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, "u1", got.UserID)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "a1", got.Recommendations[0].ID)
	assert.Equal(t, "TechDaily", got.Recommendations[0].Source)
	assert.Equal(t, "positive", got.Recommendations[0].Sentiment)
	assert.InDelta(t, 3.2, got.Recommendations[0].Score, 0.001)
	assert.NotNil(t, got.Recommendations[0].PublishedAt)

	assert.Equal(t, "req-1", got.Meta.RequestID)
	assert.Equal(t, 5, got.Meta.ArticlesFetched)
	assert.EqualValues(t, 1500, got.Meta.ProcessingMs)
	assert.Equal(t, "gpt-4o-mini", got.Meta.Provider)

	assert.Len(t, recommender.RecommendCalls(), 1)
}

func TestServer_Recommendations_InvalidJSON(t *testing.T) {
	srv := New(testConfig(""), &mocks.RecommenderMock{}, "test-version", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/v1/recommendations", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Recommendations_ValidationError(t *testing.T) {
	recommender := &mocks.RecommenderMock{
		RecommendFunc: func(_ context.Context, profile *domain.PreferenceProfile) (*domain.Result, error) {
			return nil, profile.Validate()
		},
	}
	srv := New(testConfig(""), recommender, "test-version", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/v1/recommendations", "application/json", strings.NewReader(`{"user_id":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp["error"], "user_id")
}

func TestServer_Recommendations_PipelineError(t *testing.T) {
	recommender := &mocks.RecommenderMock{
		RecommendFunc: func(_ context.Context, _ *domain.PreferenceProfile) (*domain.Result, error) {
			return nil, context.DeadlineExceeded
		},
	}
	srv := New(testConfig(""), recommender, "test-version", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/v1/recommendations", "application/json", strings.NewReader(`{"user_id":"u1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "recommendation failed", errResp["error"], "internal details stay internal")
}

func TestServer_Recommendations_EmptyResult(t *testing.T) {
	recommender := &mocks.RecommenderMock{
		RecommendFunc: func(_ context.Context, _ *domain.PreferenceProfile) (*domain.Result, error) {
			return &domain.Result{
				Articles: []domain.ScoredArticle{},
				Meta:     domain.Meta{RequestID: "req-2", Degraded: true},
			}, nil
		},
	}
	srv := New(testConfig(""), recommender, "test-version", false)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/v1/recommendations", "application/json", strings.NewReader(`{"user_id":"u1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got recommendationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
	assert.True(t, got.Meta.Degraded)
}
