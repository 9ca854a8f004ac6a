package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"rota-engine/internal/config"
	"rota-engine/internal/handler"
	"rota-engine/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config and PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	logger, err := config.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	m := metrics.New()
	e, plans, err := newEngine(cfg, "", logger, m)
	if err != nil {
		return err
	}
	if plans == nil {
		logger.Warn("no fare catalog configured; fare comparisons disabled")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &fasthttp.Server{
		Handler:      handler.New(e, m, logger).Serve,
		Name:         appName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	addr := ":" + strconv.Itoa(cfg.Server.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("rota engine starting", "addr", addr, "version", Version)
		if err := srv.ListenAndServe(addr); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	if plans != nil && cfg.Fares.Watch {
		g.Go(func() error { return plans.Watch(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.ShutdownWithContext(sctx)
	})
	return g.Wait()
}
