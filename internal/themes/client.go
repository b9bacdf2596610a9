package themes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// Theme is the metadata the course API returns for a single theme.
type Theme struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Client interface {
	GetTheme(ctx context.Context, themeID string) (Theme, error)
}

type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s: %d", e.URL, ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Transport overrides http.DefaultTransport, mostly for tests.
	Transport http.RoundTripper
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(opts Options) *HTTPClient {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:  base,
				token: opts.Token,
			},
		},
	}
}

func (c *HTTPClient) GetTheme(ctx context.Context, themeID string) (Theme, error) {
	endpoint := c.baseURL + "/themes/" + url.PathEscape(themeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Theme{}, fmt.Errorf("build theme request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return Theme{}, fmt.Errorf("fetch theme %q: %w", themeID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Theme{}, &StatusError{StatusCode: res.StatusCode, URL: endpoint}
	}

	var theme Theme
	if err := json.NewDecoder(res.Body).Decode(&theme); err != nil {
		return Theme{}, fmt.Errorf("decode theme %q: %w", themeID, err)
	}

	return theme, nil
}

type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}
