package zora

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zoracoin/internal/adapters/ratelimit"
	"zoracoin/internal/domain/coin"
	"zoracoin/internal/metrics"
	"zoracoin/pkg/errors"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx response from the coins REST API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("coins api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("coins api returned %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps 404 to ErrNotFound and 429/5xx to ErrUnavailable
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return errors.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return errors.ErrRateLimitExceeded
	case e.StatusCode >= 500:
		return errors.ErrUnavailable
	default:
		return nil
	}
}

// APIClient calls the coins REST API
type APIClient struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	limiters *ratelimit.MultiLimiter
}

// NewAPIClient creates a REST client
func NewAPIClient(baseURL, apiKey string, httpClient *http.Client, limiters *ratelimit.MultiLimiter) *APIClient {
	if limiters == nil {
		limiters = ratelimit.NewMultiLimiter()
	}
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     httpClient,
		limiters: limiters,
	}
}

// ProfileBalances lists coins held by the profile behind query.Identifier
func (a *APIClient) ProfileBalances(ctx context.Context, query coin.BalancesQuery) (*coin.ProfileBalances, error) {
	params := url.Values{}
	params.Set("identifier", query.Identifier)
	if query.Count != nil {
		params.Set("count", strconv.Itoa(*query.Count))
	}
	if query.After != nil {
		params.Set("after", *query.After)
	}

	body, err := a.get(ctx, "/profileBalances", params, ratelimit.KeyGlobal, ratelimit.KeyProfileBalances)
	if err != nil {
		return nil, err
	}
	return coin.NewProfileBalances(body)
}

func (a *APIClient) get(ctx context.Context, path string, params url.Values, limiterKeys ...string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordZoraAPICall(strings.TrimPrefix(path, "/"), time.Since(start), errors.Is(err, errors.ErrRateLimitExceeded), err)
	}()

	if err := a.limiters.Wait(ctx, limiterKeys...); err != nil {
		return nil, err
	}

	endpoint := a.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("api-key", a.apiKey)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return body, nil
}

// ProfileBalances implements coin.SDK
func (c *Client) ProfileBalances(ctx context.Context, query coin.BalancesQuery) (*coin.ProfileBalances, error) {
	return c.api.ProfileBalances(ctx, query)
}
