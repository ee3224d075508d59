package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"dividendtracker/src/utils"
)

// ExternalAPIService wraps an http.Client used to talk to third party APIs.
type ExternalAPIService struct {
	client *http.Client
}

// NewExternalAPIService creates a new instance of ExternalAPIService
func NewExternalAPIService(timeout time.Duration) *ExternalAPIService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExternalAPIService{client: &http.Client{Timeout: timeout}}
}

// makeRequest is a helper function to make HTTP requests, supporting optional query parameters
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint string, params url.Values, headers map[string]string) (*http.Response, error) {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return s.client.Do(req)
}

// Get makes a GET request and returns the body. Non 2xx responses are
// returned as *utils.HTTPError.
func (s *ExternalAPIService) Get(ctx context.Context, endpoint string, params url.Values, headers map[string]string) ([]byte, error) {
	resp, err := s.makeRequest(ctx, http.MethodGet, endpoint, params, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, utils.NewHTTPError(resp.StatusCode, fmt.Sprintf("%s returned %s", redactQuery(endpoint), resp.Status))
	}
	return body, nil
}

// redactQuery strips the query from an endpoint so API keys never reach the logs.
func redactQuery(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "request"
	}
	u.RawQuery = ""
	return u.String()
}
