package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
)

//go:generate moq --out mocks/fetcher.go --pkg mocks --with-resets --skip-ensure . Fetcher
//go:generate moq --out mocks/enricher.go --pkg mocks --with-resets --skip-ensure . Enricher
//go:generate moq --out mocks/ranker.go --pkg mocks --with-resets --skip-ensure . Ranker

// Fetcher retrieves candidate articles for a profile
type Fetcher interface {
	Fetch(ctx context.Context, profile *domain.PreferenceProfile) ([]domain.Article, error)
}

// Enricher attaches analysis to a single article, degrading instead of failing
type Enricher interface {
	Enrich(ctx context.Context, article domain.Article) domain.EnrichedArticle
}

// Ranker scores and orders enriched articles for a profile
type Ranker interface {
	Rank(profile *domain.PreferenceProfile, articles []domain.EnrichedArticle) []domain.ScoredArticle
}

// Pipeline orchestrates fetch, enrichment and ranking for one request. It
// owns the request's time budget and concurrency limit; everything below it
// is single-article work.
type Pipeline struct {
	fetcher  Fetcher
	enricher Enricher
	ranker   Ranker
	provider string // model identifier reported in result metadata
	cfg      config.PipelineConfig
}

// New creates a pipeline over the given stages
func New(fetcher Fetcher, enricher Enricher, ranker Ranker, provider string, cfg config.PipelineConfig) *Pipeline {
	return &Pipeline{fetcher: fetcher, enricher: enricher, ranker: ranker, provider: provider, cfg: cfg}
}

// Recommend runs the full pipeline for a profile. Provider failure degrades
// to an empty result with metadata rather than an error; only an invalid
// profile or a canceled parent context is reported as an error.
func (p *Pipeline) Recommend(ctx context.Context, profile *domain.PreferenceProfile) (*domain.Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	meta := domain.Meta{RequestID: uuid.New().String(), Provider: p.provider}

	articles, err := p.fetcher.Fetch(ctx, profile)
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			return nil, err
		}
		// provider down is not the user's problem, serve an empty page
		lgr.Printf("[WARN] fetch failed for %s (%s): %v", profile.UserID, fetchErr.Kind, err)
		meta.Degraded = true
		meta.ProcessingTime = time.Since(start)
		return &domain.Result{Articles: []domain.ScoredArticle{}, Meta: meta}, nil
	}
	meta.ArticlesFetched = len(articles)

	enriched := p.enrichAll(ctx, articles)
	meta.ArticlesAnalyzed = len(enriched)
	for _, article := range enriched {
		if article.Degraded {
			meta.DegradedCount++
		}
	}
	meta.Degraded = meta.DegradedCount > 0 || len(enriched) < len(articles)

	ranked := p.ranker.Rank(profile, enriched)

	meta.ProcessingTime = time.Since(start)
	lgr.Printf("[INFO] request %s for %s: fetched %d, analyzed %d, degraded %d, returned %d in %v",
		meta.RequestID, profile.UserID, meta.ArticlesFetched, meta.ArticlesAnalyzed,
		meta.DegradedCount, len(ranked), meta.ProcessingTime)

	return &domain.Result{Articles: ranked, Meta: meta}, nil
}

// enrichAll fans enrichment out over a bounded worker group under the request
// time budget. Articles whose enrichment did not complete before the budget
// expired are dropped; whatever finished in time is returned.
func (p *Pipeline) enrichAll(ctx context.Context, articles []domain.Article) []domain.EnrichedArticle {
	if len(articles) == 0 {
		return nil
	}

	budget := p.cfg.TimeBudget
	if budget <= 0 {
		budget = 20 * time.Second
	}
	limit := p.cfg.MaxConcurrent
	if limit <= 0 {
		limit = 5
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var mu sync.Mutex
	enriched := make([]domain.EnrichedArticle, 0, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, article := range articles {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // budget spent, skip remaining articles
			}
			result := p.enricher.Enrich(gctx, article)
			mu.Lock()
			enriched = append(enriched, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, they degrade instead

	if len(enriched) < len(articles) {
		lgr.Printf("[WARN] time budget %v expired, enriched %d of %d articles", budget, len(enriched), len(articles))
	}
	return enriched
}
