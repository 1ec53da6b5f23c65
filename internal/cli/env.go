package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kolah/truffle/internal/config"
	"github.com/kolah/truffle/internal/derive"
	"github.com/kolah/truffle/internal/discovery"
	"github.com/kolah/truffle/internal/loader"
	"github.com/kolah/truffle/internal/logging"
	"github.com/kolah/truffle/internal/model"
	"github.com/kolah/truffle/internal/session"
	"github.com/spf13/cobra"
)

// env is what every command derives from configuration.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	})
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) discoverer() *discovery.Discoverer {
	fetcher := discovery.NewHTTPFetcher(e.cfg.Discovery.Timeout, e.cfg.Relay.URL, e.cfg.Discovery.UserAgent)
	return discovery.New(fetcher,
		discovery.WithLogger(e.logger),
		discovery.WithTimeout(e.cfg.Discovery.Timeout),
	)
}

func (e *env) discover(ctx context.Context, cmd *cobra.Command, target string) (*model.SpecDocument, error) {
	res := e.discoverer().Discover(ctx, target)
	if !res.Success {
		return nil, errors.New(res.Error)
	}
	cmd.PrintErrf("Found spec via %s strategy after %d request(s): %s\n", res.Strategy, res.Attempts, res.Document.OriginURL)
	return res.Document, nil
}

// loadDocument imports a local file, or discovers the spec when source is a URL.
func (e *env) loadDocument(ctx context.Context, cmd *cobra.Command, source string) (*model.SpecDocument, error) {
	if isURL(source) {
		return e.discover(ctx, cmd, source)
	}
	doc, err := loader.LoadFile(source)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}
	return doc, nil
}

func (e *env) openSession(ctx context.Context, cmd *cobra.Command, source string) (*session.Session, error) {
	s := session.New()
	ticket := s.Begin()
	doc, err := e.loadDocument(ctx, cmd, source)
	if err != nil {
		return nil, err
	}
	s.Commit(ticket, doc)
	return s, nil
}

func (e *env) rand() derive.Rand {
	seed := e.cfg.Mock.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return derive.NewRand(seed)
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func parseMethod(s string) (model.Method, error) {
	m, ok := model.ParseMethod(s)
	if !ok {
		return "", fmt.Errorf("invalid method: %s", s)
	}
	return m, nil
}

// inspectArgs handles the shared "<spec> <method> <url>" arguments.
func (e *env) inspectArgs(cmd *cobra.Command, args []string) (*session.Inspection, error) {
	method, err := parseMethod(args[1])
	if err != nil {
		return nil, err
	}

	s, err := e.openSession(cmd.Context(), cmd, args[0])
	if err != nil {
		return nil, err
	}

	return s.Inspect(session.NewRequest(method, args[2]), e.rand(),
		derive.WithOptionalProbability(e.cfg.Mock.OptionalProbability))
}
