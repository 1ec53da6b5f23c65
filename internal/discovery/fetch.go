package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	acceptHeader     = "application/json, application/yaml, text/yaml, text/html, */*"
	defaultUserAgent = "truffle/1.0 (+spec discovery)"
	maxBodyBytes     = 20 << 20
)

// Response is a fetched document.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	// URL is the address the body came from after redirects. Through a relay
	// redirects are invisible and URL is the requested target.
	URL string
}

// Fetcher performs one GET. Non-2xx statuses are returned as responses, not errors.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*Response, error)
}

// HTTPFetcher fetches targets directly or, when RelayURL is set, through the
// CORS relay with validation skipped.
type HTTPFetcher struct {
	Client    *http.Client
	RelayURL  string
	UserAgent string
}

func NewHTTPFetcher(timeout time.Duration, relayURL, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		RelayURL:  relayURL,
		UserAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*Response, error) {
	reqURL := target
	if f.RelayURL != "" {
		var err error
		reqURL, err = RelayRequestURL(f.RelayURL, target, true)
		if err != nil {
			return nil, &NetworkError{URL: target, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	final := target
	if f.RelayURL == "" && resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		URL:         final,
	}, nil
}

// RelayRequestURL builds "<relay>?url=<target>&skipValidation=<bool>".
func RelayRequestURL(relay, target string, skipValidation bool) (string, error) {
	u, err := url.Parse(relay)
	if err != nil {
		return "", fmt.Errorf("parsing relay URL: %w", err)
	}
	q := u.Query()
	q.Set("url", target)
	if skipValidation {
		q.Set("skipValidation", "true")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
