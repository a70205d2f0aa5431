package domain

import (
	"strings"
	"time"
)

// Article is the canonical record produced by the source adapter. Immutable
// once created; enrichment produces a new EnrichedArticle instead of mutating.
type Article struct {
	ID          string // stable fingerprint derived from URL or provider ID
	Title       string
	URL         string
	SourceName  string
	PublishedAt time.Time // zero value means unknown, treated as maximally stale
	RawText     string    // body or description, input for enrichment
	Language    string
}

// Sentiment is the analyzer's verdict on article tone
type Sentiment string

// sentiment values returned by the text analyzer
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// ParseSentiment maps free-form analyzer output to a known sentiment value
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNeutral:
		return SentimentNeutral
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentUnknown
	}
}

// EnrichedArticle is an Article plus machine-derived signals
type EnrichedArticle struct {
	Article
	Summary   string
	Keywords  []string
	Sentiment Sentiment
	Category  string
	Degraded  bool // true when analysis failed and defaults were substituted
}

// ScoredArticle is an EnrichedArticle with its relevance score attached.
// Breakdown maps factor name to its weighted contribution, for explainability.
type ScoredArticle struct {
	EnrichedArticle
	Score     float64
	Breakdown map[string]float64
}

// NormalizeSource canonicalizes a source name for comparison
func NormalizeSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
