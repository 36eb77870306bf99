package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/medscan/prometheus"
	"github.com/fwojciec/medscan/server"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := server.Config{Address: c.Address, Port: c.Port}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	opts := []server.Option{
		server.WithSite(deps.Site),
		server.WithLogger(deps.Logger),
		server.WithMetrics(prometheus.NewMetrics()),
	}
	if deps.Scans != nil {
		opts = append(opts, server.WithScanService(deps.Scans))
	}
	srv := server.NewServer(cfg, deps.Medicines, opts...)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	deps.Logger.Info("server stopped")
	return nil
}
