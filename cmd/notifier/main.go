// Command notifier polls the FedWatch feed and sends an alert when the Ease
// probability changes.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johan/fedwatch-notifier/internal/config"
	"github.com/johan/fedwatch-notifier/internal/feed"
	"github.com/johan/fedwatch-notifier/internal/logger"
	"github.com/johan/fedwatch-notifier/internal/metrics"
	"github.com/johan/fedwatch-notifier/internal/monitor"
	"github.com/johan/fedwatch-notifier/internal/notifier"
	"github.com/johan/fedwatch-notifier/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	feedURL := flag.String("url", feed.DefaultURL, "JSON feed URL")
	pollSeconds := flag.Int("poll-seconds", 15*60, "Polling interval in seconds")
	notifyOnStart := flag.Bool("notify-on-start", false, "Send a message with the initial Ease probability")
	runOnce := flag.Bool("run-once", false, "Fetch the feed a single time (useful for smoke tests and cron)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Config file not found, using defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Fatalf("Error loading config: %v", err)
		}
	}

	// Flags given on the command line win over the file
	var overrides config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			overrides.URL = feedURL
		case "poll-seconds":
			interval := time.Duration(*pollSeconds) * time.Second
			overrides.PollInterval = &interval
		case "notify-on-start":
			overrides.NotifyOnStart = notifyOnStart
		case "run-once":
			overrides.RunOnce = runOnce
		}
	})
	overrides.Apply(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	n, err := notifier.New(cfg.Notifier)
	if err != nil {
		log.Fatalf("Error creating notifier: %v", err)
	}

	stor, err := storage.New(cfg.Storage.Type, cfg.Storage.OutputDir, cfg.Storage.RotationInterval)
	if err != nil {
		log.Fatalf("Error creating storage: %v", err)
	}

	m := metrics.New()

	fetcher := feed.NewClient(&http.Client{Timeout: cfg.Feed.Timeout}).
		WithUserAgent(cfg.Feed.UserAgent)

	svc := monitor.NewService(monitor.Options{
		URL:                cfg.Feed.URL,
		PollInterval:       cfg.Feed.PollInterval,
		NotifyOnStart:      cfg.Monitor.NotifyOnStart,
		RunOnce:            cfg.Monitor.RunOnce,
		FatalOnNotifyError: cfg.Monitor.FatalOnNotifyError,
	}, fetcher, n, stor, m)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Listen != "" {
		srv := metrics.NewServer(cfg.Metrics.Listen, m)
		g.Go(func() error { return srv.Serve(gctx) })
	}
	g.Go(func() error {
		// Stop the metrics server once the loop is done (run-once mode)
		defer cancel()
		return svc.Run(gctx)
	})

	runErr := g.Wait()
	if err := svc.Close(); err != nil {
		slog.Warn("Error closing journal", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("Notifier error: %v", runErr)
	}

	slog.Info("Notifier shutdown complete")
}
