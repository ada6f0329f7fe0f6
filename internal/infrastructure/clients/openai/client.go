package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/pkg/config"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the triage provider on the OpenAI responses API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

var _ providers.TriageProvider = (*Client)(nil)

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// NewClientWithOptions overrides the base URL and HTTP client (used for tests).
func NewClientWithOptions(cfg *config.OpenAIConfig, baseURL string, httpClient *http.Client) (*Client, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(baseURL) != "" {
		client.baseURL = baseURL
	}
	if httpClient != nil {
		client.httpClient = httpClient
	}
	return client, nil
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// ExtractNeedsProfile derives a structured needs profile from symptoms text
// and optional image descriptions.
func (c *Client) ExtractNeedsProfile(ctx context.Context, input providers.TriageInput) (*providers.TriageAssessment, error) {
	if strings.TrimSpace(input.Symptoms) == "" && len(input.ImageDescriptions) == 0 {
		return nil, errors.New("symptoms text or image descriptions are required")
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordTriageMetric(ctx, c.model, 0, 0, err)
			return nil, err
		}
		recordTriageRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	payload := map[string]interface{}{
		"model": c.model,
		"input": []map[string]string{
			{"role": "system", "content": triageSystemPrompt},
			{"role": "user", "content": buildTriageUserPrompt(input)},
		},
		"temperature":       0.2,
		"max_output_tokens": 600,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordTriageMetric(ctx, c.model, 0, time.Since(start), err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordTriageMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: openai request failed with status %d", providers.ErrTriageUnauthorized, resp.StatusCode)
		}
		return nil, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordTriageMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var text string
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				text = content.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		recordTriageMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return nil, errors.New("openai response missing output text")
	}

	assessment, err := parseTriageAssessment(stripCodeFences(text))
	if err != nil {
		recordTriageMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}

	recordTriageMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return assessment, nil
}

// stripCodeFences removes Markdown code blocks the model sometimes wraps
// around JSON output.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

type tokenBucket struct {
	tokens chan struct{}
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type triageMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	triageMetricsInit bool
	metrics           triageMetrics
)

func ensureTriageMetrics() {
	if triageMetricsInit {
		return
	}
	meter := otel.Meter("github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/openai")
	metrics.requestCount, _ = meter.Int64Counter("openai.request.count")
	metrics.requestDuration, _ = meter.Float64Histogram("openai.request.duration", metric.WithUnit("ms"))
	metrics.requestErrors, _ = meter.Int64Counter("openai.request.errors")
	metrics.rateLimitWait, _ = meter.Float64Histogram("openai.ratelimit.wait", metric.WithUnit("ms"))
	triageMetricsInit = true
}

func recordTriageMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureTriageMetrics()
	attrs := metric.WithAttributes(
		attribute.String("model", model),
		attribute.Int("status_code", statusCode),
	)
	if metrics.requestCount != nil {
		metrics.requestCount.Add(ctx, 1, attrs)
	}
	if metrics.requestDuration != nil {
		metrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if err != nil && metrics.requestErrors != nil {
		metrics.requestErrors.Add(ctx, 1, attrs)
	}
}

func recordTriageRateLimitWait(ctx context.Context, model string, waited time.Duration) {
	ensureTriageMetrics()
	if metrics.rateLimitWait != nil {
		metrics.rateLimitWait.Record(ctx, float64(waited.Milliseconds()), metric.WithAttributes(attribute.String("model", model)))
	}
}
