package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/jameshorton2486/transcript-creator-processor/internal/models"
	apperrors "github.com/jameshorton2486/transcript-creator-processor/pkg/errors"
)

const serviceName = "deepgram"

// Client handles communication with the Deepgram transcription API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	userAgent   string
	maxAttempts int
	backoff     time.Duration
	limiter     *rate.Limiter

	// sleep is replaceable in tests to observe the backoff schedule
	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds configuration for the transcription client
type Config struct {
	APIKey            string
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxAttempts       int           // total attempts for retryable failures
	Backoff           time.Duration // first retry delay, doubled per attempt
	RequestsPerSecond float64       // outbound request limit, 0 = unlimited
}

// NewClient creates a new transcription client.
// A missing API key falls back to the DEEPGRAM_API_KEY environment variable.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("DEEPGRAM_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com/v1/listen"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "TranscriptProcessor/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		limiter:     limiter,
		sleep:       sleepContext,
	}
}

// Ready reports whether the client has a resolvable API key.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return apperrors.InvalidCredentials(serviceName)
	}
	return nil
}

// Transcribe sends one audio file to the transcription service and returns
// the typed result. Rate-limit (429) and transport failures are retried with
// exponential backoff up to MaxAttempts total tries; any other non-2xx status
// is terminal. Validation failures are raised before any network call.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts models.TranscriptionOptions) (*models.TranscriptionResult, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, apperrors.FileNotFound(audioPath).WithCause(err)
	}
	if err := c.Ready(); err != nil {
		return nil, err
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeFileNotFound, "cannot read audio file: %s", audioPath)
	}

	endpoint := c.baseURL
	if params := encodeOptions(opts); params != "" {
		endpoint += "?" + params
	}
	contentType := contentTypeForFile(audioPath)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkFailure, "waiting for rate limiter")
			}
		}

		result, err := c.doRequest(ctx, endpoint, contentType, audio)
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt < c.maxAttempts {
			wait := c.backoff << (attempt - 1)
			log.Printf("[WARN] Deepgram request failed (attempt %d/%d), retrying in %s: %v",
				attempt, c.maxAttempts, wait, err)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkFailure, "retry wait interrupted")
			}
		}
	}

	if apperrors.Is(lastErr, apperrors.ErrCodeRateLimited) {
		return nil, apperrors.RateLimited(serviceName, c.maxAttempts).WithCause(lastErr)
	}
	return nil, apperrors.NetworkFailure(serviceName, c.maxAttempts, lastErr)
}

// doRequest performs one transcription attempt
func (c *Client) doRequest(ctx context.Context, endpoint, contentType string, audio []byte) (*models.TranscriptionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "creating request")
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkFailure, "executing request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkFailure, "reading response")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.New(apperrors.ErrCodeRateLimited, "transcription request was rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.RemoteServiceError(serviceName, resp.StatusCode, string(body))
	}

	var result models.TranscriptionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRemoteService, "decoding response")
	}
	result.Raw = json.RawMessage(body)

	return &result, nil
}

// isRetryable reports whether an attempt error warrants another try
func isRetryable(err error) bool {
	return apperrors.Is(err, apperrors.ErrCodeRateLimited) ||
		apperrors.Is(err, apperrors.ErrCodeNetworkFailure)
}

// sleepContext waits for the duration or until the context is cancelled
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
