// Package slack provides a read-only client for the Slack Web API.
//
// The client speaks the form-encoded Web API with a user token plus the
// browser session cookie, retries transient failures, and resolves
// human-friendly targets (#channel, @user) to IDs. It never posts,
// edits, or deletes anything.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 20 * time.Second

	// RateLimit is the client-side request rate (requests per second).
	RateLimit = 10.0

	// maxRetries is the number of retries after the first attempt.
	maxRetries = 2

	networkBackoff = 400 * time.Millisecond
	serverBackoff  = 500 * time.Millisecond

	// Session cookies are only honored for requests that look like a
	// signed-in browser.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"
)

// Params holds request parameters for a Web API call. Values are
// stringified on the wire; bools become "true"/"false".
type Params map[string]any

// Client is a Slack Web API client scoped to one workspace.
// It is not safe for concurrent use; each run builds one client and the
// per-run caches live for the life of that client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
	cookie     string
	verbose    bool
	maxRetries int
	sleep      func(time.Duration)

	usersCache    []User
	usersLoaded   bool
	usersMapCache map[string]User
	convCache     map[string]Conversation
	snapshotCache map[string]Conversation
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the API base URL derived from the workspace.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithVerbose enables request logging to stderr.
func WithVerbose(verbose bool) ClientOption {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// NewClient creates a Slack API client for the given workspace slug,
// user token, and browser session cookie value.
func NewClient(workspace, token, cookie string, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:       fmt.Sprintf("https://%s.slack.com/api", workspace),
		token:         token,
		cookie:        cookie,
		maxRetries:    maxRetries,
		sleep:         time.Sleep,
		convCache:     make(map[string]Conversation),
		snapshotCache: make(map[string]Conversation),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Call invokes a Web API method (e.g. "conversations.history") with
// form-encoded parameters and returns the raw JSON payload after the
// ok-envelope check. A "token" entry in params overrides the client token.
func (c *Client) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + method
	body := c.formValues(params).Encode()
	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c.decorate(req)
		return req, nil
	}

	if c.verbose {
		fmt.Fprintf(os.Stderr, "slack: POST %s\n", method)
	}
	status, raw, err := c.doWithRetry(ctx, build)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, &HTTPError{Method: method, StatusCode: status}
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", ErrInvalidResponse, method)
	}
	if !envelope.OK {
		code := envelope.Error
		if code == "" {
			code = "unknown_error"
		}
		return nil, &APIError{Method: method, Code: code, Payload: raw}
	}
	return raw, nil
}

// CallRaw performs an arbitrary API request and returns the body as-is,
// with no status or ok-envelope classification. The endpoint may be a
// method name, an /api/-prefixed path, or an absolute URL. GET requests
// carry the parameters in the query string, everything else in the form
// body. The HTTP verb defaults to POST.
func (c *Client) CallRaw(ctx context.Context, httpMethod, endpoint string, params Params) (string, error) {
	verb := strings.ToUpper(strings.TrimSpace(httpMethod))
	if verb == "" {
		verb = http.MethodPost
	}
	target, err := c.APIURL(endpoint)
	if err != nil {
		return "", err
	}
	form := c.formValues(params)

	var build func() (*http.Request, error)
	if verb == http.MethodGet {
		parsed, err := url.Parse(target)
		if err != nil {
			return "", fmt.Errorf("parsing endpoint URL: %w", err)
		}
		query := parsed.Query()
		for key, values := range form {
			for _, value := range values {
				query.Set(key, value)
			}
		}
		parsed.RawQuery = query.Encode()
		requestURL := parsed.String()
		build = func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return nil, err
			}
			c.decorate(req)
			return req, nil
		}
	} else {
		body := form.Encode()
		build = func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, verb, target, strings.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			c.decorate(req)
			return req, nil
		}
	}

	if c.verbose {
		fmt.Fprintf(os.Stderr, "slack: %s %s\n", verb, endpoint)
	}
	_, raw, err := c.doWithRetry(ctx, build)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// APIURL resolves an endpoint argument to a full API URL. Absolute
// http(s) URLs pass through untouched.
func (c *Client) APIURL(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return "", fmt.Errorf("API endpoint cannot be empty")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	normalized := strings.TrimLeft(raw, "/")
	normalized = strings.TrimPrefix(normalized, "api/")
	if normalized == "" {
		return "", fmt.Errorf("API endpoint cannot be empty")
	}
	return c.baseURL + "/" + normalized, nil
}

// doWithRetry runs one request with the retry schedule: network errors
// back off 400ms*attempt, 429 waits for Retry-After (at least 1s), and
// 5xx backs off 500ms*attempt. The response that survives the budget is
// returned for classification, not retried into oblivion.
func (c *Client) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (int, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}
		req, err := build()
		if err != nil {
			return 0, nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.sleep(networkBackoff * time.Duration(attempt+1))
				continue
			}
			return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				c.sleep(networkBackoff * time.Duration(attempt+1))
				continue
			}
			return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			c.sleep(retryAfter(resp.Header))
			continue
		}
		if resp.StatusCode >= 500 && attempt < c.maxRetries {
			c.sleep(serverBackoff * time.Duration(attempt+1))
			continue
		}
		return resp.StatusCode, raw, nil
	}
	if lastErr != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, lastErr)
	}
	return 0, nil, fmt.Errorf("%w: request failed", ErrNetwork)
}

// retryAfter reads the Retry-After header, defaulting to one second and
// never waiting less than that.
func retryAfter(header http.Header) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header.Get("Retry-After")))
	if err != nil || seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func (c *Client) formValues(params Params) url.Values {
	values := url.Values{}
	values.Set("token", c.token)
	for key, value := range params {
		values.Set(key, paramString(value))
	}
	return values
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "d", Value: c.cookie})
	}
}

func paramString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
