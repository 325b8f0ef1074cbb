package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/drone-survey-sync/api/handlers"
	"github.com/linesmerrill/drone-survey-sync/api/scheduler"
	"github.com/linesmerrill/drone-survey-sync/apiclient"
	"github.com/linesmerrill/drone-survey-sync/config"
	"github.com/linesmerrill/drone-survey-sync/events"
	"github.com/linesmerrill/drone-survey-sync/store"
)

var (
	envFiles []string
	rootCmd  = &cobra.Command{
		Use:          "dronesync",
		Short:        "Drone survey sync",
		Long:         "Keeps a local cache of organizations, drones, missions and statistics in sync with the drone survey backend and its push channel.",
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", []string{".env"}, "dotenv files to load before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(envFiles...)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := apiclient.New(cfg.BackendURL, apiclient.WithTimeout(cfg.RequestTimeout))
	s := store.New(client,
		store.WithMetrics(store.NewMetrics(reg)),
		store.WithRequestTimeout(cfg.RequestTimeout),
	)

	chCfg := events.DefaultConfig(cfg.SocketURL)
	chCfg.Path = cfg.SocketPath
	chCfg.InitialRetryDelay = cfg.ReconnectDelay
	chCfg.MaxRetryDelay = cfg.ReconnectDelayMax
	channel := events.New(chCfg)
	unbind := s.BindEvents(channel)
	defer unbind()

	a := handlers.App{Config: *cfg}
	a.Initialize(s, reg)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(s.Run(ctx)) })
	g.Go(func() error { return ignoreCanceled(channel.Run(ctx)) })
	g.Go(func() error {
		if err := s.ListOrganizations(ctx); err != nil {
			zap.S().Warnw("initial organization load failed", "error", err)
		}
		return nil
	})
	if cfg.StatisticsRefreshSchedule != "" {
		sched := scheduler.NewScheduler(s, cfg.StatisticsRefreshSchedule, cfg.RequestTimeout)
		g.Go(func() error { return sched.Run(ctx) })
	}
	g.Go(func() error {
		zap.S().Infow("dronesync is up and running",
			"port", cfg.Port,
			"backend", cfg.BackendURL,
			"socket", cfg.SocketURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	zap.S().Info("dronesync stopped")
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
