// Package httpx is the outbound HTTP layer shared by the provider adapters.
// Every call goes through a per-provider circuit breaker and is mapped onto
// the domain error taxonomy: transport failures become *domain.NetworkError,
// non-2xx answers become *domain.ProviderError.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"weatherly/internal/domain"

	"github.com/sony/gobreaker/v2"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client performs JSON GET requests against one upstream provider.
// It is safe for concurrent use.
type Client struct {
	session   *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	provider  string
	userAgent string
}

func New(provider string, session *http.Client, userAgent string) *Client {
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: isSuccessful,
	})

	return &Client{
		session:   session,
		breaker:   cb,
		provider:  provider,
		userAgent: userAgent,
	}
}

func (c *Client) Provider() string { return c.provider }

// GetJSON fetches rawURL and decodes the JSON body into dst.
func (c *Client) GetJSON(ctx context.Context, op string, rawURL string, dst any) error {
	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.do(op, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &domain.NetworkError{Op: op, Err: err}
		}
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &domain.ProviderError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// Client errors other than 429 say nothing about upstream health and do not
// count towards tripping the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode < 500 && pe.StatusCode != http.StatusTooManyRequests
	}
	return false
}
