package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kolah/truffle/internal/discovery"
	"github.com/kolah/truffle/internal/relay"
	"github.com/spf13/cobra"
)

func RelayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve the CORS relay used by browser clients to fetch specs",
		Args:  cobra.NoArgs,
		RunE:  runRelay,
	}

	cmd.Flags().String("addr", "localhost:8787", "Listen address")

	return cmd
}

func runRelay(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	// The relay itself always fetches directly.
	rl := relay.New(&relay.Options{
		Fetcher: discovery.NewHTTPFetcher(e.cfg.Discovery.Timeout, "", e.cfg.Discovery.UserAgent),
		Logger:  e.logger,
		Timeout: e.cfg.Discovery.Timeout,
	})

	srv := &http.Server{
		Addr:              e.cfg.Relay.Addr,
		Handler:           rl.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	e.logger.Info("relay listening", "addr", srv.Addr, "endpoint", "/relay")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving relay: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down relay: %w", err)
	}
	e.logger.Info("relay stopped")
	return nil
}
