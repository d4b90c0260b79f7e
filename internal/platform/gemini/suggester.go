package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/lorepath/insight-api/internal/config"
	"github.com/lorepath/insight-api/internal/suggestion"
)

// promptTemplate asks for a bare JSON array so the response can be
// decoded without scraping prose.
const promptTemplate = `You are tagging a learning experience with knowledge domains.

Given the experience description below, respond with a JSON array of at
most %d lowercase domain tags (single words or short hyphenated terms,
e.g. "mathematics", "machine-learning"). Respond with the JSON array
only, no surrounding text.

Description:
%s`

// DomainSuggester implements the suggestion.Suggester interface using
// the Gemini API.
type DomainSuggester struct {
	logger  *slog.Logger
	config  config.LLMConfig
	client  *genai.Client
	breaker *gobreaker.CircuitBreaker
}

var _ suggestion.Suggester = (*DomainSuggester)(nil)

// NewDomainSuggester creates a new DomainSuggester with the provided
// configuration. It validates the configuration and initializes the
// Gemini client and the circuit breaker.
func NewDomainSuggester(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*DomainSuggester, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", suggestion.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", suggestion.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			suggestion.ErrInvalidConfig, err)
	}

	log := logger.With("component", "domain_suggester")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini-domain-suggester",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &DomainSuggester{
		logger:  log,
		config:  cfg,
		client:  client,
		breaker: breaker,
	}, nil
}

// SuggestDomains implements suggestion.Suggester.SuggestDomains.
func (s *DomainSuggester) SuggestDomains(ctx context.Context, description string) ([]string, error) {
	if strings.TrimSpace(description) == "" {
		return nil, suggestion.ErrEmptyDescription
	}

	prompt := fmt.Sprintf(promptTemplate, s.maxSuggestions(), description)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.callWithRetry(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Warn("rejecting suggestion call, circuit breaker open")
			return nil, suggestion.ErrUnavailable
		}
		return nil, err
	}

	domains, ok := result.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected breaker result type", suggestion.ErrSuggestionFailed)
	}
	return domains, nil
}

// callWithRetry calls the Gemini API with exponential backoff and
// jitter. Permanent errors (blocked content, unparseable responses)
// return immediately; transient errors retry up to MaxRetries times.
func (s *DomainSuggester) callWithRetry(ctx context.Context, prompt string) ([]string, error) {
	maxRetries := s.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := s.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	// math/rand.Rand is not safe for concurrent use, so each call gets
	// its own source rather than sharing one across request goroutines.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		s.logger.Debug("making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		domains, err := s.callOnce(ctx, prompt)
		if err == nil {
			return domains, nil
		}

		if errors.Is(err, suggestion.ErrContentBlocked) || errors.Is(err, suggestion.ErrInvalidResponse) {
			s.logger.Warn("permanent error from Gemini API, not retrying", "error", err)
			return nil, err
		}

		if attempt >= maxRetries {
			s.logger.Warn("maximum retry attempts reached", "max_retries", maxRetries)
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				suggestion.ErrTransientFailure, maxRetries)
		}

		delay := retryDelay(rng, baseDelaySeconds, attempt)

		s.logger.Debug("retrying Gemini API call after delay",
			"attempt", attempt+1,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", suggestion.ErrTransientFailure, ctx.Err())
		}
	}
}

// retryDelay computes the backoff before the next attempt:
// baseDelay * 2^attempt * (0.5 + rand(0, 0.5)).
func retryDelay(rng *rand.Rand, baseDelaySeconds, attempt int) time.Duration {
	backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
	jitterFactor := 0.5 + rng.Float64()*0.5
	return time.Duration(backoffSeconds * jitterFactor * float64(time.Second))
}

// callOnce makes a single Gemini API call and parses its response.
func (s *DomainSuggester) callOnce(ctx context.Context, prompt string) ([]string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.config.ModelName, genai.Text(prompt), nil)
	if err != nil {
		// Provider errors are treated as transient and left retryable.
		return nil, fmt.Errorf("%w: %v", suggestion.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", suggestion.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response blocked by safety filters", suggestion.ErrContentBlocked)
	}

	return s.parseDomains(resp.Text())
}

// parseDomains decodes the model's JSON array, tolerating markdown code
// fences, then lowercases, deduplicates, and caps the tags.
func (s *DomainSuggester) parseDomains(text string) ([]string, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var raw []string
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			suggestion.ErrInvalidResponse, err)
	}

	maxSuggestions := s.maxSuggestions()
	seen := make(map[string]struct{}, len(raw))
	domains := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		domains = append(domains, tag)
		if len(domains) == maxSuggestions {
			break
		}
	}

	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: no usable domain tags in response", suggestion.ErrInvalidResponse)
	}
	return domains, nil
}

func (s *DomainSuggester) maxSuggestions() int {
	if s.config.MaxSuggestions <= 0 {
		return 5
	}
	return s.config.MaxSuggestions
}
