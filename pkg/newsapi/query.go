package newsapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/umputun/newsrec/pkg/domain"
)

// Query holds normalized provider query parameters, derived deterministically
// from a preference profile. Its string form doubles as the fetch cache key.
type Query struct {
	Q              string
	Sources        string
	ExcludeDomains string
	Language       string
	PageSize       int
}

// BuildQuery derives provider query parameters from a profile. Category and
// keyword terms are OR-joined, source lists are normalized and sorted so
// equivalent profiles produce the same query (and the same cache key).
func BuildQuery(profile *domain.PreferenceProfile, pageSize int) Query {
	terms := make([]string, 0, len(profile.Categories)+len(profile.Keywords))
	for _, c := range profile.Categories {
		if c = strings.TrimSpace(c); c != "" {
			terms = append(terms, c)
		}
	}
	for _, k := range profile.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			terms = append(terms, k)
		}
	}

	q := strings.Join(terms, " OR ")
	if q == "" {
		q = "news" // provider rejects empty queries
	}

	if pageSize > 100 {
		pageSize = 100 // provider hard limit
	}

	return Query{
		Q:              q,
		Sources:        joinSorted(profile.Sources),
		ExcludeDomains: joinSorted(profile.ExcludedSources),
		Language:       profile.Lang(),
		PageSize:       pageSize,
	}
}

// CacheKey returns a stable serialization of the query
func (q Query) CacheKey() string {
	return fmt.Sprintf("q=%s&sources=%s&exclude=%s&lang=%s&size=%d",
		q.Q, q.Sources, q.ExcludeDomains, q.Language, q.PageSize)
}

func joinSorted(items []string) string {
	normalized := make([]string, 0, len(items))
	for _, s := range items {
		if n := domain.NormalizeSource(s); n != "" {
			normalized = append(normalized, n)
		}
	}
	sort.Strings(normalized)
	return strings.Join(normalized, ",")
}
