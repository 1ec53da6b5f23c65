package relay

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kolah/truffle/internal/discovery"
	"github.com/kolah/truffle/internal/logging"
)

// ErrorHandler replaces the default JSON error body.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err *Error)

type Options struct {
	// Fetcher retrieves targets. It must fetch directly, never through a relay.
	Fetcher      discovery.Fetcher
	Logger       *slog.Logger
	Timeout      time.Duration
	CacheMaxAge  time.Duration
	AllowOrigin  string
	ErrorHandler ErrorHandler
}

func DefaultOptions() *Options {
	return &Options{
		Fetcher:     discovery.NewHTTPFetcher(discovery.DefaultTimeout, "", ""),
		Logger:      logging.Nop(),
		Timeout:     discovery.DefaultTimeout,
		CacheMaxAge: 5 * time.Minute,
		AllowOrigin: "*",
	}
}
