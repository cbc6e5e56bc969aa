package correction

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	apperrors "github.com/jameshorton2486/transcript-creator-processor/pkg/errors"
)

const serviceName = "openai"

// Client corrects transcripts through the OpenAI chat completion API
type Client struct {
	api              *openai.Client
	apiKey           string
	rateLimitBackoff time.Duration
	transientBackoff time.Duration

	// sleep is replaceable in tests to observe the backoff schedule
	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds configuration for the correction client
type Config struct {
	APIKey           string
	BaseURL          string        // override for tests, empty means the public API
	RateLimitBackoff time.Duration // per-attempt delay unit after a 429
	TransientBackoff time.Duration // per-attempt delay unit after a server or transport error
}

// NewClient creates a new correction client.
// A missing API key falls back to the OPENAI_API_KEY environment variable.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = 5 * time.Second
	}
	if cfg.TransientBackoff <= 0 {
		cfg.TransientBackoff = 2 * time.Second
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:              openai.NewClientWithConfig(apiConfig),
		apiKey:           cfg.APIKey,
		rateLimitBackoff: cfg.RateLimitBackoff,
		transientBackoff: cfg.TransientBackoff,
		sleep:            sleepContext,
	}
}

// Ready reports whether the client has a resolvable API key.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return apperrors.InvalidCredentials(serviceName)
	}
	return nil
}

// Correct sends the transcript for correction and returns the paired result.
// Rate-limit and transient API failures are retried up to opts.MaxRetries
// additional times with linear backoff; any other failure is terminal on the
// first occurrence. A structured completion that fails to parse is not an
// error, the result carries a parse-error marker instead.
func (c *Client) Correct(ctx context.Context, transcript string, opts models.CorrectionOptions) (*models.CorrectionResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.ValidationError("transcript", "no transcript provided for correction")
	}
	if err := c.Ready(); err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model: opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(opts)},
			{Role: openai.ChatMessageRoleUser, Content: "Please correct this transcript:\n\n" + transcript},
		},
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return nil, apperrors.CorrectionFailed(errors.New("completion contained no choices"))
			}
			return c.buildResult(transcript, resp.Choices[0].Message.Content, opts), nil
		}
		lastErr = err

		wait, retryable := classifyFailure(err, attempt+1, c.rateLimitBackoff, c.transientBackoff)
		if !retryable {
			return nil, apperrors.CorrectionFailed(err)
		}
		if attempt < opts.MaxRetries {
			log.Printf("[WARN] Correction request failed (attempt %d/%d), retrying in %s: %v",
				attempt+1, opts.MaxRetries+1, wait, err)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, apperrors.CorrectionFailed(err)
			}
		}
	}

	return nil, apperrors.CorrectionFailed(lastErr)
}

// buildResult assembles the CorrectionResult, parsing the completion as a
// structured record when that was requested.
func (c *Client) buildResult(original, completion string, opts models.CorrectionOptions) *models.CorrectionResult {
	result := &models.CorrectionResult{
		OriginalTranscript:  original,
		CorrectedTranscript: completion,
		ModelUsed:           opts.Model,
		Timestamp:           float64(time.Now().UnixNano()) / 1e9,
	}

	if !opts.FormatOutput {
		return result
	}

	var structured struct {
		CorrectedTranscript string   `json:"corrected_transcript"`
		Topics              []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(completion)), &structured); err != nil || structured.CorrectedTranscript == "" {
		log.Printf("[WARN] Could not parse structured correction output, keeping raw completion")
		result.ParseError = true
		return result
	}

	result.CorrectedTranscript = structured.CorrectedTranscript
	if opts.ExtractTopics {
		result.Topics = structured.Topics
	}
	return result
}

// classifyFailure decides whether an API error warrants a retry and with
// what delay. Rate limits wait longer than generic transient failures.
func classifyFailure(err error, attempt int, rateUnit, transientUnit time.Duration) (time.Duration, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return rateUnit * time.Duration(attempt), true
		case apiErr.HTTPStatusCode >= 500:
			return transientUnit * time.Duration(attempt), true
		default:
			return 0, false
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return rateUnit * time.Duration(attempt), true
		}
		return transientUnit * time.Duration(attempt), true
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	// transport level failure
	return transientUnit * time.Duration(attempt), true
}

// stripCodeFence removes a markdown code fence the model may wrap JSON in
// despite instructions.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
