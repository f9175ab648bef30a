// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type Completer interface {
	Complete(ctx context.Context, prompt, system string) (string, error)
}

var (
	ErrEmptyCompletion = errors.New("model returned no choices")
	ErrBreakerOpen     = errors.New("llm circuit breaker is open")
)

const (
	completionsPath      = "/chat/completions"
	defaultRetryWaitTime = 500 * time.Millisecond
	defaultRetryMaxWait  = 4 * time.Second
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type Client struct {
	http        *resty.Client
	breaker     *gobreaker.CircuitBreaker
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled)
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}

func New(cfg config.LLM) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(isRetryableResp)
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		http:        httpClient,
		breaker:     breaker,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}
}

// Complete sends one chat turn and returns the raw text of the first choice.
// The call never outlives the configured timeout.
func (c *Client) Complete(ctx context.Context, prompt, system string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, prompt, system)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", errorsUtils.WrapPathErr(ErrBreakerOpen)
		}
		return "", errorsUtils.WrapPathErr(err)
	}
	return out.(string), nil
}

func (c *Client) complete(ctx context.Context, prompt, system string) (string, error) {
	msgs := make([]message, 0, 2)
	if system != "" {
		msgs = append(msgs, message{Role: "system", Content: system})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})

	var result completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model:       c.model,
			Messages:    msgs,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		}).
		SetResult(&result).
		SetError(&result).
		Post(completionsPath)
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		msg := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("llm HTTP %d: %s", resp.StatusCode(), msg)
	}

	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return result.Choices[0].Message.Content, nil
}
