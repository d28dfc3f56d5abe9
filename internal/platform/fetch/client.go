package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// TransportError is returned for any network or HTTP-level failure. It is
// always scoped to a single call.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err carries a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond of 0 disables the limiter.
	RequestsPerSecond int
	HTTPClient        *http.Client
}

// Client performs single-attempt GET requests and decodes JSON bodies.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSecond)), 1)
	}

	return &Client{
		httpClient: hc,
		userAgent:  opts.UserAgent,
		limiter:    limiter,
	}
}

// GetJSON fetches rawURL with params merged into its query and decodes the
// body into target.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, target any) error {
	body, u, err := c.get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// GetRaw is GetJSON without decoding, for callers that keep the upstream
// payload.
func (c *Client) GetRaw(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	body, _, err := c.get(ctx, rawURL, params)
	return body, err
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, string, error) {
	u, err := BuildURL(rawURL, params)
	if err != nil {
		return nil, rawURL, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, u, &TransportError{URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, u, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, u, &TransportError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, u, &TransportError{URL: u, Err: err}
	}
	return body, u, nil
}

// BuildURL merges params into the query string already present on rawURL.
func BuildURL(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for k, vs := range params {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
