package platforms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// JSONClient issues authenticated GET requests against one platform's REST
// API. A single attempt per call: non-2xx responses come back as typed
// *APIError values carrying the upstream status and body, never retried.
type JSONClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	platform    Kind
}

// NewJSONClient creates an upstream client for the given platform
func NewJSONClient(platform Kind, timeout time.Duration, requestsPerSecond int) *JSONClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &JSONClient{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		platform:    platform,
	}
}

// FetchJSON performs a single HTTP GET and decodes the JSON response body
// into out. Callers decide whether a returned *APIError is fatal.
func (c *JSONClient) FetchJSON(ctx context.Context, rawURL string, headers map[string]string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return Internal(c.platform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Internal(c.platform, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Internal(c.platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Internal(c.platform, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UpstreamFailure(c.platform, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return Internal(c.platform, err)
	}
	return nil
}
