package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
	"github.com/umputun/newsrec/pkg/pipeline/mocks"
)

func testProfile() *domain.PreferenceProfile {
	return &domain.PreferenceProfile{UserID: "u1", Keywords: []string{"go"}, MaxArticles: 10}
}

func testArticles(n int) []domain.Article {
	articles := make([]domain.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, domain.Article{
			ID:    fmt.Sprintf("a%d", i),
			Title: fmt.Sprintf("Story %d", i),
			URL:   fmt.Sprintf("https://example.com/a%d", i),
		})
	}
	return articles
}

func passThroughRanker() *mocks.RankerMock {
	return &mocks.RankerMock{
		RankFunc: func(_ *domain.PreferenceProfile, articles []domain.EnrichedArticle) []domain.ScoredArticle {
			scored := make([]domain.ScoredArticle, 0, len(articles))
			for _, article := range articles {
				scored = append(scored, domain.ScoredArticle{EnrichedArticle: article, Score: 1})
			}
			sort.Slice(scored, func(i, j int) bool { return scored[i].ID < scored[j].ID })
			return scored
		},
	}
}

func TestPipeline_Recommend(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return testArticles(3), nil
		},
	}
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(_ context.Context, article domain.Article) domain.EnrichedArticle {
			return domain.EnrichedArticle{Article: article, Summary: "summary " + article.ID, Category: "technology"}
		},
	}
	ranker := passThroughRanker()

	p := New(fetcher, enricher, ranker, "gpt-4o-mini", config.PipelineConfig{TimeBudget: 5 * time.Second, MaxConcurrent: 2})
	result, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Len(t, result.Articles, 3)
	assert.Equal(t, 3, result.Meta.ArticlesFetched)
	assert.Equal(t, 3, result.Meta.ArticlesAnalyzed)
	assert.Zero(t, result.Meta.DegradedCount)
	assert.False(t, result.Meta.Degraded)
	assert.Equal(t, "gpt-4o-mini", result.Meta.Provider)
	assert.NotEmpty(t, result.Meta.RequestID)
	assert.Positive(t, result.Meta.ProcessingTime)

	assert.Len(t, fetcher.FetchCalls(), 1)
	assert.Len(t, enricher.EnrichCalls(), 3)
	assert.Len(t, ranker.RankCalls(), 1)
}

func TestPipeline_Recommend_InvalidProfile(t *testing.T) {
	p := New(&mocks.FetcherMock{}, &mocks.EnricherMock{}, &mocks.RankerMock{}, "m", config.PipelineConfig{})

	_, err := p.Recommend(context.Background(), &domain.PreferenceProfile{UserID: ""})
	require.Error(t, err)

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "user_id", validationErr.Field)
}

func TestPipeline_Recommend_FetchFailureDegrades(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return nil, &domain.FetchError{Kind: domain.ErrUnavailable, Err: errors.New("provider down")}
		},
	}
	enricher := &mocks.EnricherMock{}
	ranker := &mocks.RankerMock{}

	p := New(fetcher, enricher, ranker, "m", config.PipelineConfig{TimeBudget: time.Second, MaxConcurrent: 2})
	result, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err, "provider failure is not a request error")

	assert.Empty(t, result.Articles)
	assert.True(t, result.Meta.Degraded)
	assert.Zero(t, result.Meta.ArticlesFetched)
	assert.Len(t, enricher.EnrichCalls(), 0, "nothing to enrich")
	assert.Len(t, ranker.RankCalls(), 0)
}

func TestPipeline_Recommend_UnexpectedFetchError(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return nil, errors.New("boom")
		},
	}

	p := New(fetcher, &mocks.EnricherMock{}, &mocks.RankerMock{}, "m", config.PipelineConfig{})
	_, err := p.Recommend(context.Background(), testProfile())
	assert.EqualError(t, err, "boom")
}

func TestPipeline_Recommend_PartialEnrichmentFailure(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return testArticles(5), nil
		},
	}
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(_ context.Context, article domain.Article) domain.EnrichedArticle {
			if article.ID == "a2" {
				// analyzer failed, enricher substitutes defaults
				return domain.EnrichedArticle{Article: article, Sentiment: domain.SentimentUnknown, Category: "unknown", Degraded: true}
			}
			return domain.EnrichedArticle{Article: article, Summary: "ok", Category: "world"}
		},
	}

	p := New(fetcher, enricher, passThroughRanker(), "m", config.PipelineConfig{TimeBudget: 5 * time.Second, MaxConcurrent: 3})
	result, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Len(t, result.Articles, 5, "degraded article still served")
	assert.Equal(t, 1, result.Meta.DegradedCount)
	assert.True(t, result.Meta.Degraded)

	degraded := 0
	for _, article := range result.Articles {
		if article.Degraded {
			degraded++
			assert.Equal(t, "a2", article.ID)
		}
	}
	assert.Equal(t, 1, degraded)
}

func TestPipeline_Recommend_ConcurrencyLimit(t *testing.T) {
	var active, maxActive int32
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return testArticles(10), nil
		},
	}
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(_ context.Context, article domain.Article) domain.EnrichedArticle {
			cur := atomic.AddInt32(&active, 1)
			for {
				prev := atomic.LoadInt32(&maxActive)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return domain.EnrichedArticle{Article: article}
		},
	}

	p := New(fetcher, enricher, passThroughRanker(), "m", config.PipelineConfig{TimeBudget: 5 * time.Second, MaxConcurrent: 3})
	result, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Len(t, result.Articles, 10)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxActive), int32(3))
}

func TestPipeline_Recommend_TimeBudget(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return testArticles(10), nil
		},
	}
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(ctx context.Context, article domain.Article) domain.EnrichedArticle {
			select {
			case <-time.After(30 * time.Millisecond):
			case <-ctx.Done():
			}
			return domain.EnrichedArticle{Article: article, Summary: "done"}
		},
	}

	p := New(fetcher, enricher, passThroughRanker(), "m", config.PipelineConfig{TimeBudget: 50 * time.Millisecond, MaxConcurrent: 1})
	result, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Less(t, len(result.Articles), 10, "budget expiry drops unprocessed articles")
	assert.True(t, result.Meta.Degraded)
	assert.Equal(t, 10, result.Meta.ArticlesFetched)
	assert.Equal(t, len(result.Articles), result.Meta.ArticlesAnalyzed)
}

func TestPipeline_Recommend_RankerReceivesEnriched(t *testing.T) {
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, _ *domain.PreferenceProfile) ([]domain.Article, error) {
			return testArticles(2), nil
		},
	}
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(_ context.Context, article domain.Article) domain.EnrichedArticle {
			return domain.EnrichedArticle{Article: article, Summary: "enriched"}
		},
	}
	ranker := passThroughRanker()

	p := New(fetcher, enricher, ranker, "m", config.PipelineConfig{TimeBudget: time.Second, MaxConcurrent: 2})
	_, err := p.Recommend(context.Background(), testProfile())
	require.NoError(t, err)

	calls := ranker.RankCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "u1", calls[0].Profile.UserID)
	require.Len(t, calls[0].Articles, 2)
	for _, article := range calls[0].Articles {
		assert.Equal(t, "enriched", article.Summary)
	}
}
