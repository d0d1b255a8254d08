// Package ninjas provides a client for the API Ninjas city and air quality
// endpoints.
package ninjas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/airquality-cli/internal/resilience"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.api-ninjas.com"

// Endpoint names, also used as circuit breaker keys.
const (
	EndpointCity       = "city"
	EndpointAirQuality = "airquality"
)

// Client defines the provider lookups. Both return the raw response body on
// HTTP 200; any other status is returned as a *StatusError.
type Client interface {
	// City fetches place metadata by name.
	City(ctx context.Context, name string) ([]byte, error)
	// AirQuality fetches air quality metrics for a city.
	AirQuality(ctx context.Context, city string) ([]byte, error)
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ninjas: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the outbound request rate shared by both endpoints.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreakers guards each endpoint with a circuit breaker from b.
func WithBreakers(b *resilience.Breakers) Option {
	return func(c *httpClient) {
		c.breakers = b
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	breakers *resilience.Breakers
}

// NewClient creates a provider client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(5, 5),
		breakers: resilience.NewBreakers(resilience.BreakerConfig{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) City(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, EndpointCity, "/v1/city", url.Values{"name": {name}})
}

func (c *httpClient) AirQuality(ctx context.Context, city string) ([]byte, error) {
	return c.get(ctx, EndpointAirQuality, "/v1/airquality", url.Values{"city": {city}})
}

// get performs a single GET. It is never retried.
func (c *httpClient) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	cb := c.breakers.Get(endpoint)
	return resilience.ExecuteVal(ctx, cb, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrapf(err, "ninjas: %s: rate limit wait", endpoint)
		}

		reqURL := c.baseURL + path + "?" + q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "ninjas: %s: create request", endpoint)
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrapf(err, "ninjas: %s: request failed", endpoint)
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrapf(err, "ninjas: %s: read response body", endpoint)
		}

		zap.L().Debug("provider response",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)),
			zap.Duration("elapsed", time.Since(start)),
		)

		if resp.StatusCode != http.StatusOK {
			se := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(se, resp.StatusCode)
			}
			return nil, se
		}
		return body, nil
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
