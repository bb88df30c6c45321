package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client is the HTTP wrapper for the Qase REST API. One Client is
// created per provider token; the token is sent on every request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// Config holds Client construction options. Zero values fall back to
// package defaults.
type Config struct {
	BaseURL           string
	Token             string
	HTTPClient        *http.Client
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a new Qase HTTP client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("qase: token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// ListProjects lists projects via GET /project.
func (c *Client) ListProjects(ctx context.Context, opt ListProjectsOptions) (ProjectList, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(opt.Limit)))
	q.Set("offset", strconv.Itoa(max(opt.Offset, 0)))

	var result struct {
		envelope
		Result ProjectList `json:"result"`
	}
	if err := c.get(ctx, "/project", q, &result); err != nil {
		return ProjectList{}, err
	}
	return result.Result, nil
}

// GetProject fetches a single project by code.
func (c *Client) GetProject(ctx context.Context, code string) (Project, error) {
	var result struct {
		envelope
		Result Project `json:"result"`
	}
	if err := c.get(ctx, "/project/"+url.PathEscape(code), nil, &result); err != nil {
		return Project{}, err
	}
	return result.Result, nil
}

// ListRuns lists test runs for a project via GET /run/{code}.
func (c *Client) ListRuns(ctx context.Context, code string, opt ListRunsOptions) (RunList, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(opt.Limit)))
	q.Set("offset", strconv.Itoa(max(opt.Offset, 0)))
	if opt.Status != "" {
		q.Set("status", opt.Status)
	}

	var result struct {
		envelope
		Result RunList `json:"result"`
	}
	if err := c.get(ctx, "/run/"+url.PathEscape(code), q, &result); err != nil {
		return RunList{}, err
	}
	return result.Result, nil
}

// ListDefects lists defects for a project via GET /defect/{code}.
func (c *Client) ListDefects(ctx context.Context, code string, opt ListDefectsOptions) (DefectList, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(opt.Limit)))
	q.Set("offset", strconv.Itoa(max(opt.Offset, 0)))
	if opt.Status != "" {
		q.Set("status", opt.Status)
	}

	var result struct {
		envelope
		Result DefectList `json:"result"`
	}
	if err := c.get(ctx, "/defect/"+url.PathEscape(code), q, &result); err != nil {
		return DefectList{}, err
	}
	return result.Result, nil
}

// ListCases lists test cases for a project via GET /case/{code}.
func (c *Client) ListCases(ctx context.Context, code string, opt ListCasesOptions) (CaseList, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clampLimit(opt.Limit)))
	q.Set("offset", strconv.Itoa(max(opt.Offset, 0)))
	if opt.SuiteID > 0 {
		q.Set("suite_id", strconv.Itoa(opt.SuiteID))
	}

	var result struct {
		envelope
		Result CaseList `json:"result"`
	}
	if err := c.get(ctx, "/case/"+url.PathEscape(code), q, &result); err != nil {
		return CaseList{}, err
	}
	return result.Result, nil
}

// get performs a rate-limited GET with bounded retry on 429 and 5xx.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.doGet(ctx, path, query, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
	}

	return lastErr
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, out any) error {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("qase: failed to build request: %w", err)
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qase: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return &RateLimitError{RetryAfter: resp.Header.Get("Retry-After")}
	case resp.StatusCode != http.StatusOK:
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("qase: failed to decode response: %w", err)
	}
	return nil
}

// retryable reports whether the request may be retried: throttling and
// server-side failures only. Auth errors never recover by retrying.
func retryable(err error) bool {
	switch e := err.(type) {
	case *RateLimitError:
		return true
	case *APIError:
		return e.Status >= 500
	default:
		return false
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}
