// Command eventcal serves the community event calendar API: it loads the raw
// event payload (plus subscribed ICS feeds), keeps the snapshot fresh on a
// cron schedule, and serves filtered occurrence lists and calendar exports.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"eventcal/internal/config"
	"eventcal/internal/feed"
	appLog "eventcal/internal/log"
	"eventcal/internal/source"
	"eventcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	appLog.SetLevel(conf.LogLevel)

	appLog.Info("eventcal starting",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.Refresh,
		"feed_count", len(conf.Feeds),
		"once", flags.once,
	)

	loc := resolveLocationOrLocal(conf.Timezone)

	feeds := make([]feed.Source, 0, len(conf.Feeds))
	for _, fc := range conf.Feeds {
		if fc.URL == "" {
			continue
		}
		feeds = append(feeds, feed.Source{ID: fc.ID, Name: fc.Name, URL: fc.URL})
	}
	store := source.NewStore(conf.Source.Path, conf.Source.URL, feeds, source.NewFetcher(conf.CacheDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Refresh(ctx); err != nil {
		appLog.Error("initial refresh failed", err)
		if flags.once {
			os.Exit(1)
		}
		// The API stays up and reports "could not load" until a later
		// scheduled refresh succeeds.
	}
	if flags.once {
		return
	}

	sched := cron.New()
	if _, err := sched.AddFunc(conf.Refresh, func() {
		if err := store.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.Refresh)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         conf.Listen,
		Handler:      web.NewServer(store, loc).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server error", err)
			os.Exit(1)
		}
	}()

	sig := <-stop
	appLog.Info("signal received, shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown error", err)
		os.Exit(1)
	}
	appLog.Info("eventcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig
	flag.StringVar(&cfg.configPath, "config", "/etc/eventcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run a single refresh and exit")
	flag.Parse()
	return cfg
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}
