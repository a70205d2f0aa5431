package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsrec/pkg/config"
	"github.com/umputun/newsrec/pkg/domain"
)

// Analyzer derives summary, keywords, sentiment and category from article
// text using an OpenAI-compatible chat endpoint. The backing model is a black
// box with nondeterministic latency and occasionally malformed output, so the
// response is validated and re-requested on unparseable JSON.
type Analyzer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewAnalyzer creates a new LLM analyzer
func NewAnalyzer(cfg config.LLMConfig) *Analyzer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &Analyzer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: defaultSystemPrompt,
	}
}

// default system prompt for article analysis
const defaultSystemPrompt = `You are an AI assistant that analyzes news articles.
For the article text provided, produce a JSON object with exactly these fields:
- summary: concise summary of the key points (50-100 words). Write directly about the content itself, never start with "The article discusses" or similar framing.
- keywords: array of the 5 most important keywords, lowercase
- sentiment: exactly one of "positive", "neutral", "negative"
- category: the best matching category from the provided list

Respond with the JSON object only, no extra commentary.`

// Analysis holds the machine-derived signals for one article text
type Analysis struct {
	Summary   string   `json:"summary"`
	Keywords  []string `json:"keywords"`
	Sentiment string   `json:"sentiment"`
	Category  string   `json:"category"`
}

// Model reports the configured model identifier, used in response metadata
func (a *Analyzer) Model() string {
	return a.config.Model
}

// Analyze runs one analysis call for the given article text. The text is
// expected to be pre-truncated by the caller; enforcing the fingerprint-stable
// bound is the enricher's job.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.EnrichmentError{Kind: domain.ErrMalformed, Err: errors.New("empty article text")}
	}

	prompt := a.buildPrompt(text)

	// retry up to 3 times if we get invalid JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		chatReq := openai.ChatCompletionRequest{
			Model:       a.config.Model,
			Temperature: float32(a.config.Temperature),
			MaxTokens:   a.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: a.systemMsg},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		}

		// add JSON response format if enabled
		if a.config.UseJSONMode {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := a.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, &domain.EnrichmentError{Kind: classifyAPIError(err), Err: err}
		}

		if len(resp.Choices) == 0 {
			return nil, &domain.EnrichmentError{Kind: domain.ErrMalformed, Err: errors.New("no response from llm")}
		}

		analysis, err := a.parseResponse(resp.Choices[0].Message.Content)
		if err == nil {
			return analysis, nil
		}
		lastErr = err
	}

	return nil, &domain.EnrichmentError{Kind: domain.ErrMalformed, Err: fmt.Errorf("failed after 3 attempts: %w", lastErr)}
}

// buildPrompt creates the prompt for the LLM
func (a *Analyzer) buildPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Available categories: ")
	sb.WriteString(strings.Join(a.config.Categories, ", "))
	sb.WriteString("\n\nAnalyze this article text:\n\n")
	sb.WriteString(text)
	return sb.String()
}

// parseResponse extracts and validates the analysis JSON from LLM output
func (a *Analyzer) parseResponse(content string) (*Analysis, error) {
	// models without JSON mode tend to wrap the object in prose
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("no json object found in response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(content[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse json response: %w", err)
	}

	analysis.Summary = strings.TrimSpace(analysis.Summary)
	analysis.Sentiment = string(domain.ParseSentiment(analysis.Sentiment))
	analysis.Category = a.validCategory(analysis.Category)

	keywords := make([]string, 0, len(analysis.Keywords))
	for _, kw := range analysis.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	analysis.Keywords = keywords

	return &analysis, nil
}

// validCategory returns the matching configured category or "unknown"
func (a *Analyzer) validCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	for _, c := range a.config.Categories {
		if strings.EqualFold(c, category) {
			return strings.ToLower(c)
		}
	}
	return "unknown"
}

// classifyAPIError maps transport/API failures to the shared error kinds
func classifyAPIError(err error) domain.ErrorKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return domain.ErrRateLimited
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return domain.ErrUnavailable
		default:
			return domain.ErrMalformed
		}
	}
	return domain.ErrUnavailable
}
