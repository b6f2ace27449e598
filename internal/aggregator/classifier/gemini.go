package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"golang-lanka-watch/internal/aggregator/config"
	"golang-lanka-watch/internal/aggregator/dto"
	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
	"golang-lanka-watch/pkg/ratelimit"
)

type geminiClassifier struct {
	apiKey       string
	model        string
	baseURL      string
	httpClient   *http.Client
	logger       *logger.Logger
	limiter      *rate.Limiter
	tokenLimiter *ratelimit.TokenLimiter
	genAiClient  *genai.Client
	fallback     Classifier
}

// NewGeminiClassifier classifies through the Gemini API and falls back to
// the given classifier whenever the model is unreachable or returns
// something unusable.
func NewGeminiClassifier(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client, fallback Classifier) Classifier {
	maxRequests := cfg.Gemini.MaxRequestPerMinute
	if maxRequests <= 0 {
		maxRequests = 10
	}
	return &geminiClassifier{
		apiKey:       cfg.Gemini.APIKey,
		model:        cfg.Gemini.Model,
		baseURL:      cfg.Gemini.BaseURL,
		httpClient:   &http.Client{Timeout: 90 * time.Second},
		logger:       log,
		limiter:      rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequests)), 1),
		tokenLimiter: ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		genAiClient:  genAiClient,
		fallback:     fallback,
	}
}

func (c *geminiClassifier) Classify(ctx context.Context, text string) entity.Classification {
	if c.apiKey == "" || c.genAiClient == nil {
		return c.fallback.Classify(ctx, text)
	}

	result, err := c.classifyRemote(ctx, text)
	if err != nil {
		c.logger.Warn("gemini classification failed, using keyword classifier",
			logger.ErrorField(err))
		return c.fallback.Classify(ctx, text)
	}
	return result
}

func (c *geminiClassifier) classifyRemote(ctx context.Context, text string) (entity.Classification, error) {
	prompt := buildClassifyPrompt(text)

	tokenCount, err := c.countTokens(ctx, prompt)
	if err != nil {
		return entity.Classification{}, fmt.Errorf("failed to count tokens: %w", err)
	}
	if err := c.tokenLimiter.Wait(ctx, tokenCount); err != nil {
		return entity.Classification{}, fmt.Errorf("token limiter wait: %w", err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.Classification{}, fmt.Errorf("request limiter wait: %w", err)
	}

	raw, err := c.generateContent(ctx, prompt)
	if err != nil {
		return entity.Classification{}, err
	}
	return c.parseClassification(raw)
}

func (c *geminiClassifier) countTokens(ctx context.Context, prompt string) (int, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, "user")}
	resp, err := c.genAiClient.Models.CountTokens(ctx, c.model, contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (c *geminiClassifier) generateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := dto.GeminiAPIRequest{
		Contents: []dto.GeminiContent{
			{Parts: []dto.GeminiPart{{Text: prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp dto.GeminiAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contains no candidates")
	}
	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

// parseClassification cleans the model output and normalizes every field so
// downstream code only ever sees values from the known vocabularies.
func (c *geminiClassifier) parseClassification(raw string) (entity.Classification, error) {
	jsonString := strings.TrimSpace(raw)
	jsonString = strings.Trim(jsonString, "```json\n")
	jsonString = strings.TrimSpace(jsonString)

	var result entity.Classification
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return entity.Classification{}, fmt.Errorf("failed to parse classification JSON: %w", err)
	}

	result.Category = strings.ToLower(strings.TrimSpace(result.Category))
	if !isKnownCategory(result.Category) {
		result.Category = entity.CategoryGeneral
	}
	result.Severity = strings.ToLower(strings.TrimSpace(result.Severity))
	switch result.Severity {
	case entity.SeverityHigh, entity.SeverityMedium, entity.SeverityLow, entity.SeverityInfo:
	default:
		result.Severity = entity.SeverityInfo
	}
	if strings.TrimSpace(result.Subcategory) == "" {
		result.Subcategory = fmt.Sprintf("%s_general", result.Category)
	}
	if strings.TrimSpace(result.Location) == "" {
		result.Location = "Sri Lanka"
	}
	if strings.TrimSpace(result.Impact) == "" {
		result.Impact = impactFor(result.Category, result.Severity)
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result, nil
}

func isKnownCategory(name string) bool {
	for _, cat := range categories {
		if cat.name == name {
			return true
		}
	}
	return name == entity.CategoryGeneral
}

func buildClassifyPrompt(text string) string {
	runes := []rune(text)
	if len(runes) > 500 {
		runes = runes[:500]
	}
	return fmt.Sprintf(`You classify Sri Lankan news and social media text for a situational awareness system.

Text: %q

Pick exactly one category from: %s.
Pick severity from: high, medium, low, info.
Location must be a Sri Lankan province, district or city named in the text, or "Sri Lanka" when none is named.

Respond with ONLY a JSON object, no markdown, in this shape:
{"category": "...", "subcategory": "...", "location": "...", "impact": "one sentence on public impact", "severity": "...", "confidence": 0.0}`,
		string(runes), strings.Join(CategoryNames(), ", "))
}
