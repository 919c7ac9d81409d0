package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// maxPageSize is the hard page-size limit of the Jira search API.
const maxPageSize = 100

// StatusError reports a non-2xx response from the Jira API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("jira authentication failed (%d), check JIRA_EMAIL and JIRA_API_TOKEN", e.Code)
	case http.StatusTooManyRequests:
		return "jira rate limit exceeded (429)"
	default:
		return fmt.Sprintf("jira API returned status %d", e.Code)
	}
}

type cloudClient struct {
	cfg        Config
	httpClient *http.Client
}

func newCloudClient(cfg Config) *cloudClient {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 90 * time.Second
	}
	return &cloudClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Search fetches one page of results for q starting at the given offset.
func (c *cloudClient) Search(ctx context.Context, q Query, startAt int) (*SearchResponse, error) {
	pageSize := q.Limit
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := url.Values{}
	params.Set("jql", q.JQL)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(pageSize))
	if q.Fields != "" {
		params.Set("fields", q.Fields)
	}
	if q.Expand != "" {
		params.Set("expand", q.Expand)
	}

	searchURL := fmt.Sprintf("%s/rest/api/3/search/jql?%s", c.cfg.BaseURL, params.Encode())
	log.Debug().Str("jql", q.JQL).Int("startAt", startAt).Msg("Requesting issues from Jira")

	resp, err := c.doWithRetry(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode Jira response: %w", err)
	}
	return &result, nil
}

// doWithRetry issues the request and retries once on a transport-level
// failure. Non-2xx responses are returned to the caller, not retried.
func (c *cloudClient) doWithRetry(ctx context.Context, searchURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
			log.Debug().Msg("Retrying Jira request after transport failure")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return nil, fmt.Errorf("jira request failed: %w", lastErr)
}
