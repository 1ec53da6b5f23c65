// Package discovery locates an OpenAPI/Swagger document starting from any URL:
// the document itself, an API origin, or a documentation page.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kolah/truffle/internal/loader"
	"github.com/kolah/truffle/internal/logging"
	"github.com/kolah/truffle/internal/model"
)

const DefaultTimeout = 10 * time.Second

// WellKnownPaths are tried in order against an origin.
var WellKnownPaths = []string{
	"/swagger.json",
	"/swagger.yaml",
	"/openapi.json",
	"/openapi.yaml",
	"/v2/swagger.json",
	"/v2/swagger.yaml",
	"/v3/openapi.json",
	"/v3/openapi.yaml",
	"/api-docs",
	"/api-docs/swagger.json",
	"/api-docs/swagger.yaml",
	"/docs/swagger.json",
	"/docs/swagger.yaml",
}

type Strategy string

const (
	StrategyDirect    Strategy = "direct"
	StrategyWellKnown Strategy = "well-known"
	StrategyScrape    Strategy = "scrape"
	StrategyFallback  Strategy = "fallback"
)

// Result is the outcome of Discover. Exactly one of Document and Error is set.
type Result struct {
	Success  bool
	Document *model.SpecDocument
	Error    string
	Strategy Strategy
	// Attempts counts the fetches made.
	Attempts int
}

type Discoverer struct {
	fetcher Fetcher
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Discoverer)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// WithTimeout bounds each individual fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Discoverer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		fetcher: fetcher,
		logger:  logging.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NormalizeURL trims whitespace and adds https:// when no scheme is given.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// Discover runs the strategies strictly one after another and stops at the
// first fetch that yields a valid document: the candidate itself, well-known
// paths on its origin, URLs scraped from the candidate as an HTML page, then
// well-known paths on the page's own origin. Individual failures are only
// logged; the result carries a single exhaustion error.
func (d *Discoverer) Discover(ctx context.Context, candidate string) Result {
	run := &run{d: d, ctx: ctx}

	target := NormalizeURL(candidate)
	if target == "" {
		return run.exhausted()
	}

	if res, ok := run.try(StrategyDirect, target); ok {
		return res
	}

	origin := model.Origin(target)
	if origin != "" {
		if res, ok := run.tryOrigin(StrategyWellKnown, origin); ok {
			return res
		}
	}

	page, err := run.fetch(target)
	if err != nil {
		run.failed(StrategyScrape, target, err)
		return run.exhausted()
	}
	if page.StatusCode != http.StatusOK {
		run.failed(StrategyScrape, target, &ValidationError{URL: target, Reason: fmt.Sprintf("status %d", page.StatusCode)})
		return run.exhausted()
	}

	candidates := ExtractSpecURLs(page.Body, page.URL)
	d.logger.Debug("scraped candidate spec URLs", "url", page.URL, "count", len(candidates))
	for _, c := range candidates {
		if res, ok := run.try(StrategyScrape, c); ok {
			return res
		}
	}

	// Probing the same origin twice would only repeat step two.
	pageOrigin := model.Origin(page.URL)
	if pageOrigin != "" && pageOrigin != origin {
		if res, ok := run.tryOrigin(StrategyFallback, pageOrigin); ok {
			return res
		}
	}

	return run.exhausted()
}

type run struct {
	d        *Discoverer
	ctx      context.Context
	attempts int
}

func (r *run) fetch(target string) (*Response, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	r.attempts++
	ctx, cancel := context.WithTimeout(r.ctx, r.d.timeout)
	defer cancel()
	return r.d.fetcher.Fetch(ctx, target)
}

func (r *run) tryOrigin(strategy Strategy, origin string) (Result, bool) {
	for _, p := range WellKnownPaths {
		if res, ok := r.try(strategy, origin+p); ok {
			return res, true
		}
		if r.ctx.Err() != nil {
			break
		}
	}
	return Result{}, false
}

func (r *run) try(strategy Strategy, target string) (Result, bool) {
	resp, err := r.fetch(target)
	if err != nil {
		r.failed(strategy, target, err)
		return Result{}, false
	}
	doc, err := documentFrom(resp, target)
	if err != nil {
		r.failed(strategy, target, err)
		return Result{}, false
	}

	r.d.logger.Info("spec discovered", "strategy", strategy, "url", doc.OriginURL, "attempts", r.attempts)
	return Result{
		Success:  true,
		Document: doc,
		Strategy: strategy,
		Attempts: r.attempts,
	}, true
}

func (r *run) failed(strategy Strategy, target string, err error) {
	r.d.logger.Debug("discovery attempt failed", "strategy", strategy, "url", target, "error", err)
}

func (r *run) exhausted() Result {
	err := &ExhaustedStrategiesError{Attempts: r.attempts}
	return Result{Error: err.Error(), Attempts: r.attempts}
}

// documentFrom accepts only a 200 whose body parses and carries a spec marker.
func documentFrom(resp *Response, target string) (*model.SpecDocument, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, &ValidationError{URL: target, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	location := resp.URL
	if location == "" {
		location = target
	}
	doc, err := loader.NewDocument(resp.Body, loader.Classify(resp.ContentType, location), location)
	if err != nil {
		var perr *loader.ParseError
		if errors.As(err, &perr) {
			return nil, &ValidationError{URL: target, Reason: "unparseable body", Err: err}
		}
		return nil, &ValidationError{URL: target, Reason: "not a spec document", Err: err}
	}
	return doc, nil
}
