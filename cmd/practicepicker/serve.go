package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bft-labs/practicepicker/internal/adapters/fs"
	"github.com/bft-labs/practicepicker/internal/adapters/metrics"
	"github.com/bft-labs/practicepicker/internal/adapters/web"
	"github.com/bft-labs/practicepicker/internal/app"
	"github.com/bft-labs/practicepicker/internal/backend"
	"github.com/bft-labs/practicepicker/internal/cliconfig"
	"github.com/bft-labs/practicepicker/pkg/log"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the practice picker web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&c.cfg.Listen, "listen", c.cfg.Listen, "HTTP listen address")
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	// The backend is chosen once and kept until the process exits.
	sel := backend.Select(ctx, c.cfg, c.client, c.logger)
	defer func() {
		if err := sel.Close(); err != nil {
			c.logger.Warn("close backend", log.Err(err))
		}
	}()

	session := app.NewSession(ctx, rec.Instrument(sel.Repo),
		app.WithLogger(c.logger),
		app.WithDrawObserver(rec),
	)

	if c.cfgPath != "" && cliconfig.FileExists(c.cfgPath) {
		go fs.NewConfigWatcher(c.cfgPath, c.logger, nil).Run(ctx)
	}

	handler := web.NewServer(session, c.logger, map[string]http.Handler{
		"GET /metrics": promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	srv := &http.Server{
		Addr:              c.cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("listening", log.String("addr", c.cfg.Listen), log.String("backend", session.Backend()), log.String("session_id", session.ID()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.logger.Info("received signal, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	c.logger.Debug("server stopped")
	return nil
}
