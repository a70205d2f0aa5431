package enrich

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsrec/pkg/cache"
	"github.com/umputun/newsrec/pkg/domain"
	"github.com/umputun/newsrec/pkg/llm"
)

//go:generate moq --out mocks/analyzer.go --pkg mocks --with-resets --skip-ensure . Analyzer

// Analyzer produces summary, keywords, sentiment and category for article text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*llm.Analysis, error)
}

// degradedSummaryRunes caps the raw-text excerpt used when analysis fails
const degradedSummaryRunes = 200

// Enricher attaches analysis results to articles, caching them by content
// fingerprint so the same text is never analyzed twice within the TTL. An
// analyzer failure never fails the article; it yields a degraded record with
// a raw-text excerpt standing in for the summary.
type Enricher struct {
	analyzer      Analyzer
	analysisCache *cache.Typed[llm.Analysis]
	maxInputChars int
}

// NewEnricher creates an enricher. The cache may be nil which disables
// fingerprint caching.
func NewEnricher(analyzer Analyzer, analysisCache *cache.Typed[llm.Analysis], maxInputChars int) *Enricher {
	return &Enricher{analyzer: analyzer, analysisCache: analysisCache, maxInputChars: maxInputChars}
}

// Enrich analyzes one article. The analysis is keyed by the fingerprint of the
// truncated text, so a cached result from one request is reused by any other
// article carrying the same body.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) domain.EnrichedArticle {
	text := truncateRunes(article.RawText, e.maxInputChars)
	fp := Fingerprint(text)

	if analysis, found := e.analysisCache.Get(ctx, fp); found {
		lgr.Printf("[DEBUG] enrichment cache hit for %s", article.ID)
		return merge(article, &analysis)
	}

	analysis, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		lgr.Printf("[WARN] analysis failed for %s (%s): %v", article.ID, article.Title, err)
		return degraded(article)
	}

	// a write from a canceled request must not land with a partial result
	if ctx.Err() == nil {
		e.analysisCache.Set(ctx, fp, *analysis)
	}
	return merge(article, analysis)
}

// Fingerprint returns the stable cache key for a piece of article text.
// Computed after truncation so the key matches what the analyzer actually saw.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func merge(article domain.Article, analysis *llm.Analysis) domain.EnrichedArticle {
	return domain.EnrichedArticle{
		Article:   article,
		Summary:   analysis.Summary,
		Keywords:  analysis.Keywords,
		Sentiment: domain.ParseSentiment(analysis.Sentiment),
		Category:  analysis.Category,
	}
}

// degraded substitutes a raw-text excerpt for the missing analysis
func degraded(article domain.Article) domain.EnrichedArticle {
	return domain.EnrichedArticle{
		Article:   article,
		Summary:   strings.TrimSpace(truncateRunes(article.RawText, degradedSummaryRunes)),
		Sentiment: domain.SentimentUnknown,
		Category:  "unknown",
		Degraded:  true,
	}
}

// truncateRunes cuts s to at most max runes, never splitting a multibyte
// character
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
