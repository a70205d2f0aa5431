package domain

import "fmt"

// DefaultMaxArticles limits result size when the profile doesn't set one
const DefaultMaxArticles = 10

// PreferenceProfile describes what a user wants to read. It arrives validated
// from the gateway and is immutable for the duration of a request.
type PreferenceProfile struct {
	UserID          string
	Categories      []string // preferred categories, may be empty
	Keywords        []string // ordered by importance, most important first
	Sources         []string // allow-list, empty means any source
	ExcludedSources []string // deny-list, always honored
	Language        string   // ISO code, defaults to "en"
	MaxArticles     int
	SeenArticles    []string // article IDs already shown, oldest first
}

// Validate checks profile invariants. It returns a ValidationError describing
// the first violation found.
func (p *PreferenceProfile) Validate() error {
	if p.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if p.MaxArticles < 0 {
		// zero means unset and falls back to the default in Limit()
		return &ValidationError{Field: "max_articles", Reason: "must not be negative"}
	}

	// allow and deny lists must not overlap
	excluded := make(map[string]struct{}, len(p.ExcludedSources))
	for _, s := range p.ExcludedSources {
		excluded[NormalizeSource(s)] = struct{}{}
	}
	for _, s := range p.Sources {
		if _, ok := excluded[NormalizeSource(s)]; ok {
			return &ValidationError{Field: "sources", Reason: fmt.Sprintf("source %q both allowed and excluded", s)}
		}
	}
	return nil
}

// Limit returns the effective result size bound
func (p *PreferenceProfile) Limit() int {
	if p.MaxArticles > 0 {
		return p.MaxArticles
	}
	return DefaultMaxArticles
}

// Lang returns the effective language code
func (p *PreferenceProfile) Lang() string {
	if p.Language != "" {
		return p.Language
	}
	return "en"
}
