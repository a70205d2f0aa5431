package newsapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/newsrec/pkg/cache"
	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
)

// errMalformed marks provider responses not worth retrying
var errMalformed = errors.New("malformed provider response")

// Client queries a NewsAPI-compatible search provider and normalizes its
// payloads into canonical articles. Results are cached with a short TTL since
// news content changes frequently; the cache is consulted before any provider
// call and written only on success.
type Client struct {
	endpoint        string
	apiKey          string
	httpClient      *http.Client
	pageSize        int
	maxPages        int
	overfetchFactor int
	articleCache    *cache.Typed[[]domain.Article]
}

// NewClient creates a provider client. The cache may be nil which disables
// caching (every call goes to the provider).
func NewClient(cfg config.NewsAPIConfig, articleCache *cache.Typed[[]domain.Article]) *Client {
	return &Client{
		endpoint:        cfg.Endpoint,
		apiKey:          cfg.APIKey,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		pageSize:        cfg.PageSize,
		maxPages:        cfg.MaxPages,
		overfetchFactor: cfg.OverfetchFactor,
		articleCache:    articleCache,
	}
}

// Fetch returns candidate articles for the profile, paginating until enough
// candidates are collected to survive downstream filtering. On persistent
// provider failure it returns whatever earlier pages produced, or a FetchError
// when nothing was collected at all.
func (c *Client) Fetch(ctx context.Context, profile *domain.PreferenceProfile) ([]domain.Article, error) {
	query := BuildQuery(profile, c.pageSize)
	cacheKey := query.CacheKey()

	if cached, found := c.articleCache.Get(ctx, cacheKey); found {
		lgr.Printf("[DEBUG] fetch cache hit for %q, %d articles", query.Q, len(cached))
		return cached, nil
	}

	want := profile.Limit() * c.overfetchFactor
	seen := make(map[string]struct{})
	articles := make([]domain.Article, 0, want)

	var lastErr error
	for page := 1; page <= c.maxPages && len(articles) < want; page++ {
		items, total, err := c.fetchPage(ctx, query, page)
		if err != nil {
			lastErr = err
			break
		}

		for _, item := range items {
			article, ok := normalize(item, profile.Lang())
			if !ok {
				continue
			}
			if _, dup := seen[article.ID]; dup {
				continue
			}
			seen[article.ID] = struct{}{}
			articles = append(articles, article)
		}

		// provider exhausted
		if len(items) < query.PageSize || page*query.PageSize >= total {
			break
		}
	}

	if lastErr != nil {
		if len(articles) == 0 {
			return nil, &domain.FetchError{Kind: classifyErr(lastErr), Err: lastErr}
		}
		// partial fetch proceeds, downstream handles the smaller candidate set
		lgr.Printf("[WARN] fetch degraded to %d articles for %q: %v", len(articles), query.Q, lastErr)
		return articles, nil
	}

	// only a complete, successful fetch is worth caching; a write from a
	// canceled request must not poison later reads
	if ctx.Err() == nil && len(articles) > 0 {
		c.articleCache.Set(ctx, cacheKey, articles)
	}

	lgr.Printf("[INFO] fetched %d articles for %q", len(articles), query.Q)
	return articles, nil
}

// fetchPage requests one provider page, retrying once with backoff on
// transient failures. Malformed responses are not retried.
func (c *Client) fetchPage(ctx context.Context, query Query, page int) (items []providerArticle, total int, err error) {
	retrier := repeater.NewBackoff(2, 500*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	doErr := retrier.Do(ctx, func() error {
		items, total, err = c.doRequest(ctx, query, page)
		return err
	}, errMalformed)

	if doErr != nil {
		return nil, 0, doErr
	}
	return items, total, nil
}

func (c *Client) doRequest(ctx context.Context, query Query, page int) ([]providerArticle, int, error) {
	params := url.Values{}
	params.Set("q", query.Q)
	params.Set("language", query.Language)
	params.Set("pageSize", strconv.Itoa(query.PageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("sortBy", "publishedAt")
	if query.Sources != "" {
		params.Set("sources", query.Sources)
	}
	if query.ExcludeDomains != "" {
		params.Set("excludeDomains", query.ExcludeDomains)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, 0, fmt.Errorf("provider rate limited: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, 0, fmt.Errorf("provider unavailable: status %d", resp.StatusCode)
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, 0, fmt.Errorf("%w: decode: %v", errMalformed, err)
	}

	if pr.Status != "ok" {
		if pr.Code == "rateLimited" {
			return nil, 0, fmt.Errorf("provider rate limited: %s", pr.Message)
		}
		return nil, 0, fmt.Errorf("%w: provider error %s: %s", errMalformed, pr.Code, pr.Message)
	}

	return pr.Articles, pr.TotalResults, nil
}

// classifyErr maps a provider failure to the shared error kinds
func classifyErr(err error) domain.ErrorKind {
	switch {
	case strings.Contains(err.Error(), "rate limited"):
		return domain.ErrRateLimited
	case errors.Is(err, errMalformed):
		return domain.ErrMalformed
	default:
		return domain.ErrUnavailable
	}
}

// providerResponse mirrors the NewsAPI /v2/everything payload shape
type providerResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []providerArticle `json:"articles"`
}

type providerArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// truncationMarker is appended by the provider when it cuts article bodies,
// e.g. "... [+1234 chars]"
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]$`)

// normalize converts a raw provider item into a canonical article. Items
// without a URL or title are dropped; this is the only place raw provider
// data is ever seen.
func normalize(item providerArticle, language string) (domain.Article, bool) {
	if item.URL == "" || item.Title == "" {
		return domain.Article{}, false
	}

	publishedAt := time.Time{} // unknown date ranks as maximally stale
	if item.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			publishedAt = ts
		}
	}

	rawText := truncationMarker.ReplaceAllString(item.Content, "")
	if rawText == "" {
		rawText = item.Description
	}

	return domain.Article{
		ID:          articleID(item.URL),
		Title:       item.Title,
		URL:         item.URL,
		SourceName:  item.Source.Name,
		PublishedAt: publishedAt,
		RawText:     rawText,
		Language:    language,
	}, true
}

// articleID derives a stable fingerprint from the article URL
func articleID(articleURL string) string {
	sum := sha256.Sum256([]byte(articleURL))
	return hex.EncodeToString(sum[:16])
}
