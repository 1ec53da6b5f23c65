// Package relay implements the CORS relay: it fetches a third-party URL on
// behalf of a browser client and, unless told otherwise, only passes the body
// through when it looks like a spec document.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kolah/truffle/internal/discovery"
)

const validationHint = "The URL may point to a documentation page rather than the spec itself. " +
	"Try the discover command or request with skipValidation=true."

type Relay struct {
	options *Options
}

func New(opts *Options) *Relay {
	defaults := DefaultOptions()
	if opts == nil {
		opts = defaults
	}
	if opts.Fetcher == nil {
		opts.Fetcher = defaults.Fetcher
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = defaults.CacheMaxAge
	}
	if opts.AllowOrigin == "" {
		opts.AllowOrigin = defaults.AllowOrigin
	}
	return &Relay{options: opts}
}

// Handler mounts the relay at /relay behind the CORS middleware.
func (rl *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/relay", rl.CORS(rl))
	return mux
}

// CORS answers preflight requests and decorates every response with the
// cross-origin headers.
func (rl *Relay) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", rl.options.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rl.fail(w, r, &Error{StatusCode: http.StatusMethodNotAllowed, Message: "Method not allowed"})
		return
	}

	q := r.URL.Query()
	target := q.Get("url")
	if target == "" {
		rl.fail(w, r, &Error{StatusCode: http.StatusBadRequest, Message: "Missing url parameter"})
		return
	}
	if u, err := url.Parse(target); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		rl.fail(w, r, &Error{StatusCode: http.StatusBadRequest, Message: "Invalid url parameter"})
		return
	}
	skipValidation := q.Get("skipValidation") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), rl.options.Timeout)
	defer cancel()

	resp, err := rl.options.Fetcher.Fetch(ctx, target)
	if err != nil {
		rl.options.Logger.Warn("relay fetch failed", "url", target, "error", err)
		rl.fail(w, r, &Error{StatusCode: http.StatusInternalServerError, Message: err.Error()})
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rl.options.Logger.Warn("relay target returned non-success status", "url", target, "status", resp.StatusCode)
		rl.fail(w, r, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Target server returned %d", resp.StatusCode)})
		return
	}

	if !skipValidation {
		if err := discovery.CheckSpec(resp.Body, resp.ContentType); err != nil {
			rl.options.Logger.Warn("relay rejected content", "url", target, "error", err)
			rl.fail(w, r, &Error{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid spec: " + err.Error(),
				Hint:       validationHint,
			})
			return
		}
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(rl.options.CacheMaxAge.Seconds())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

func (rl *Relay) fail(w http.ResponseWriter, r *http.Request, err *Error) {
	if rl.options.ErrorHandler != nil {
		rl.options.ErrorHandler(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}
