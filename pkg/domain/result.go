package domain

import "time"

// Meta describes how a recommendation request was processed
type Meta struct {
	RequestID        string
	ArticlesFetched  int
	ArticlesAnalyzed int
	DegradedCount    int // articles enriched with fallback defaults
	ProcessingTime   time.Duration
	Provider         string // model or provider identifier used for analysis
	Degraded         bool   // true when the pipeline ran in a degraded mode
}

// Result is what the pipeline hands back to the gateway: a ranked list plus
// processing metadata. The list may be empty on degraded operation.
type Result struct {
	Articles []ScoredArticle
	Meta     Meta
}
