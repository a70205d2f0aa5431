package rank

import (
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
)

// Engine scores enriched articles against a preference profile and orders the
// result. Scoring is deterministic for fixed inputs; the only randomness is
// the diversity tie-breaker and it is seeded from config.
type Engine struct {
	cfg config.ScoringConfig
	now func() time.Time
}

// NewEngine creates a ranking engine with the given scoring configuration
func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// Rank filters, scores and orders articles for the profile. The returned
// slice is at most profile.Limit() long, best match first.
func (e *Engine) Rank(profile *domain.PreferenceProfile, articles []domain.EnrichedArticle) []domain.ScoredArticle {
	now := e.now()

	scored := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		if isExcluded(profile, article.SourceName) {
			continue
		}
		scored = append(scored, e.score(profile, article, now))
	}

	scored = dedup(scored)
	scored = e.filterSeen(profile, scored)
	sortScored(scored)
	scored = e.diversify(scored, profile.Limit())

	if len(scored) > profile.Limit() {
		scored = scored[:profile.Limit()]
	}
	return scored
}

// score computes the weighted relevance of one article. Each factor is
// normalized to [0,1] before weighting so the breakdown stays comparable
// across profiles of different sizes.
func (e *Engine) score(profile *domain.PreferenceProfile, article domain.EnrichedArticle, now time.Time) domain.ScoredArticle {
	breakdown := map[string]float64{
		"keywords": e.cfg.KeywordWeight * keywordOverlap(profile.Keywords, article),
		"category": e.cfg.CategoryWeight * categoryMatch(profile.Categories, article.Category),
		"source":   e.cfg.SourceWeight * sourceMatch(profile.Sources, article.SourceName),
		"recency":  e.cfg.RecencyWeight * e.recency(article.PublishedAt, now),
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	return domain.ScoredArticle{EnrichedArticle: article, Score: total, Breakdown: breakdown}
}

// keywordOverlap is the fraction of profile keywords present in the article's
// keywords, title or summary
func keywordOverlap(keywords []string, article domain.EnrichedArticle) float64 {
	if len(keywords) == 0 {
		return 0
	}

	haystack := make(map[string]struct{}, len(article.Keywords))
	for _, kw := range article.Keywords {
		haystack[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
	}
	text := strings.ToLower(article.Title + " " + article.Summary)

	matched := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := haystack[kw]; ok {
			matched++
			continue
		}
		if strings.Contains(text, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func categoryMatch(categories []string, category string) float64 {
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c), category) {
			return 1
		}
	}
	return 0
}

func sourceMatch(sources []string, sourceName string) float64 {
	normalized := domain.NormalizeSource(sourceName)
	for _, s := range sources {
		if domain.NormalizeSource(s) == normalized {
			return 1
		}
	}
	return 0
}

// recency decays exponentially with article age, halving every half-life.
// Articles with unknown publish time get no recency credit at all.
func (e *Engine) recency(publishedAt time.Time, now time.Time) float64 {
	if publishedAt.IsZero() {
		return 0
	}
	halfLife := e.cfg.RecencyHalfLife
	if halfLife <= 0 {
		halfLife = 24 * time.Hour
	}
	age := now.Sub(publishedAt)
	if age < 0 {
		age = 0
	}
	return math.Pow(0.5, age.Hours()/halfLife.Hours())
}

func isExcluded(profile *domain.PreferenceProfile, sourceName string) bool {
	normalized := domain.NormalizeSource(sourceName)
	for _, s := range profile.ExcludedSources {
		if domain.NormalizeSource(s) == normalized {
			return true
		}
	}
	return false
}

// titlePunct strips everything but letters, digits and spaces when comparing
// titles for duplication
var titlePunct = regexp.MustCompile(`[^\p{L}\p{N} ]+`)

func normalizeTitle(title string) string {
	title = strings.ToLower(titlePunct.ReplaceAllString(title, ""))
	return strings.Join(strings.Fields(title), " ")
}

// dedup collapses articles sharing an id or a normalized title, keeping the
// higher-scored copy. Input order is preserved for the survivors.
func dedup(articles []domain.ScoredArticle) []domain.ScoredArticle {
	byID := make(map[string]int, len(articles))
	byTitle := make(map[string]int, len(articles))

	result := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		title := normalizeTitle(article.Title)

		if idx, ok := byID[article.ID]; ok {
			if article.Score > result[idx].Score {
				result[idx] = article
			}
			continue
		}
		if idx, ok := byTitle[title]; ok && title != "" {
			if article.Score > result[idx].Score {
				result[idx] = article
			}
			continue
		}

		byID[article.ID] = len(result)
		if title != "" {
			byTitle[title] = len(result)
		}
		result = append(result, article)
	}
	return result
}

// filterSeen drops articles from the profile's seen history. When that leaves
// fewer than the requested count, the oldest seen entries are re-admitted
// first until the count is reachable, so a user who has seen everything still
// gets a full page.
func (e *Engine) filterSeen(profile *domain.PreferenceProfile, articles []domain.ScoredArticle) []domain.ScoredArticle {
	if len(profile.SeenArticles) == 0 {
		return articles
	}

	seen := make(map[string]struct{}, len(profile.SeenArticles))
	for _, id := range profile.SeenArticles {
		seen[id] = struct{}{}
	}

	fresh := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		if _, ok := seen[article.ID]; !ok {
			fresh = append(fresh, article)
		}
	}

	limit := profile.Limit()
	if len(fresh) >= limit {
		return fresh
	}

	// relax history oldest-first until the page can be filled, counting only
	// entries actually present among today's candidates
	present := make(map[string]struct{}, len(articles))
	for _, article := range articles {
		present[article.ID] = struct{}{}
	}
	readmit := make(map[string]struct{})
	for _, id := range profile.SeenArticles {
		if len(fresh)+len(readmit) >= limit {
			break
		}
		if _, ok := present[id]; ok {
			readmit[id] = struct{}{}
		}
	}
	if len(readmit) == 0 {
		return fresh
	}
	lgr.Printf("[DEBUG] history relaxed, re-admitting %d seen articles for %s", len(readmit), profile.UserID)

	result := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		_, isSeen := seen[article.ID]
		_, isReadmitted := readmit[article.ID]
		if !isSeen || isReadmitted {
			result = append(result, article)
		}
	}
	return result
}

// sortScored orders by score desc, then published desc, then id asc so equal
// inputs always produce the same order
func sortScored(articles []domain.ScoredArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Score != articles[j].Score {
			return articles[i].Score > articles[j].Score
		}
		if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		}
		return articles[i].ID < articles[j].ID
	})
}

// diversify caps the share of any one category within the result window.
// Excess same-category entries are demoted below the next differing-category
// entry rather than dropped, so relevance still wins outside the window.
func (e *Engine) diversify(articles []domain.ScoredArticle, limit int) []domain.ScoredArticle {
	if len(articles) <= 1 || limit <= 1 {
		return articles
	}

	window := limit
	if window > len(articles) {
		window = len(articles)
	}
	maxPerCategory := int(math.Ceil(e.maxShare() * float64(window)))
	if maxPerCategory < 1 {
		maxPerCategory = 1
	}

	rnd := rand.New(rand.NewSource(e.cfg.DiversitySeed)) //nolint:gosec // reproducible ordering, not crypto

	result := make([]domain.ScoredArticle, 0, len(articles))
	pending := append([]domain.ScoredArticle(nil), articles...)
	counts := make(map[string]int)

	for len(result) < window && len(pending) > 0 {
		picked := -1
		for i, candidate := range pending {
			if counts[candidate.Category] < maxPerCategory {
				picked = i
				break
			}
		}
		if picked == -1 {
			// every remaining candidate is over the cap, take the best anyway
			picked = 0
		}

		// among equal-score candidates of the same eligibility, pick randomly
		// but reproducibly
		ties := []int{picked}
		for i := picked + 1; i < len(pending); i++ {
			if pending[i].Score != pending[picked].Score {
				break
			}
			if counts[pending[i].Category] < maxPerCategory == (counts[pending[picked].Category] < maxPerCategory) {
				ties = append(ties, i)
			}
		}
		if len(ties) > 1 {
			picked = ties[rnd.Intn(len(ties))]
		}

		chosen := pending[picked]
		counts[chosen.Category]++
		result = append(result, chosen)
		pending = append(pending[:picked], pending[picked+1:]...)
	}

	return append(result, pending...)
}

func (e *Engine) maxShare() float64 {
	if e.cfg.MaxCategoryShare <= 0 || e.cfg.MaxCategoryShare > 1 {
		return 0.5
	}
	return e.cfg.MaxCategoryShare
}
