package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/umputun/newsrec/pkg/domain"
)

// recommendationRequest is the wire form of a preference profile
type recommendationRequest struct {
	UserID              string   `json:"user_id"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	Keywords            []string `json:"keywords,omitempty"`
	Sources             []string `json:"sources,omitempty"`
	ExcludedSources     []string `json:"excluded_sources,omitempty"`
	Language            string   `json:"language,omitempty"`
	MaxArticles         int      `json:"max_articles,omitempty"`
	SeenArticles        []string `json:"seen_articles,omitempty"`
}

// recommendationResponse is the wire form of a pipeline result
type recommendationResponse struct {
	UserID          string        `json:"user_id"`
	Recommendations []articleJSON `json:"recommendations"`
	Meta            metaJSON      `json:"meta"`
}

type articleJSON struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Source      string             `json:"source"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
	Summary     string             `json:"summary"`
	Keywords    []string           `json:"keywords"`
	Sentiment   string             `json:"sentiment"`
	Category    string             `json:"category"`
	Score       float64            `json:"score"`
	Breakdown   map[string]float64 `json:"score_breakdown,omitempty"`
	Degraded    bool               `json:"degraded,omitempty"`
}

type metaJSON struct {
	RequestID        string `json:"request_id"`
	ArticlesFetched  int    `json:"articles_fetched"`
	ArticlesAnalyzed int    `json:"articles_analyzed"`
	DegradedCount    int    `json:"degraded_count"`
	ProcessingMs     int64  `json:"processing_ms"`
	Provider         string `json:"provider"`
	Degraded         bool   `json:"degraded"`
}

// recommendationsHandler runs the pipeline for the posted profile
func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	profile := &domain.PreferenceProfile{
		UserID:          req.UserID,
		Categories:      req.PreferredCategories,
		Keywords:        req.Keywords,
		Sources:         req.Sources,
		ExcludedSources: req.ExcludedSources,
		Language:        req.Language,
		MaxArticles:     req.MaxArticles,
		SeenArticles:    req.SeenArticles,
	}

	result, err := s.recommender.Recommend(r.Context(), profile)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			renderError(w, r, validationErr, http.StatusBadRequest)
			return
		}
		log.Printf("[ERROR] recommendation failed for %s: %v", req.UserID, err)
		renderError(w, r, fmt.Errorf("recommendation failed"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, toResponse(req.UserID, result))
}

func toResponse(userID string, result *domain.Result) recommendationResponse {
	articles := make([]articleJSON, 0, len(result.Articles))
	for _, article := range result.Articles {
		item := articleJSON{
			ID:        article.ID,
			Title:     article.Title,
			URL:       article.URL,
			Source:    article.SourceName,
			Summary:   article.Summary,
			Keywords:  article.Keywords,
			Sentiment: string(article.Sentiment),
			Category:  article.Category,
			Score:     article.Score,
			Breakdown: article.Breakdown,
			Degraded:  article.Degraded,
		}
		if !article.PublishedAt.IsZero() {
			ts := article.PublishedAt
			item.PublishedAt = &ts
		}
		articles = append(articles, item)
	}

	return recommendationResponse{
		UserID:          userID,
		Recommendations: articles,
		Meta: metaJSON{
			RequestID:        result.Meta.RequestID,
			ArticlesFetched:  result.Meta.ArticlesFetched,
			ArticlesAnalyzed: result.Meta.ArticlesAnalyzed,
			DegradedCount:    result.Meta.DegradedCount,
			ProcessingMs:     result.Meta.ProcessingTime.Milliseconds(),
			Provider:         result.Meta.Provider,
			Degraded:         result.Meta.Degraded,
		},
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
