// feedd runs the posts feed on top of the uniflow store: it loads posts from
// a JSON file, serves Prometheus metrics, journals dispatches, and can
// forward effects over NATS.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/uniflow"
	"git.home.luguber.info/inful/uniflow/bridge"
	"git.home.luguber.info/inful/uniflow/internal/config"
	"git.home.luguber.info/inful/uniflow/internal/feed"
	"git.home.luguber.info/inful/uniflow/internal/feedfile"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
	"git.home.luguber.info/inful/uniflow/journal"
	"git.home.luguber.info/inful/uniflow/metrics"
	"git.home.luguber.info/inful/uniflow/observe"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"feedd.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct{} `cmd:"" help:"Run the feed daemon"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Write a starter configuration and posts file"`

	Journal struct {
		Path  string `help:"Journal database path (defaults to the configured one)"`
		Limit int    `default:"20" help:"Number of entries to show"`
	} `cmd:"" help:"Show recent journal entries and per-store activity"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "run":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runDaemon(cfg); err != nil {
			slog.Error("daemon failed", logfields.Error(err))
			os.Exit(1)
		}
	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("init failed", logfields.Error(err))
			os.Exit(1)
		}
	case "journal":
		if err := runJournal(CLI.Journal.Path, CLI.Journal.Limit); err != nil {
			slog.Error("journal failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Verbose {
		cfg.Logging.Level = string(config.LogLevelDebug)
	}
	slog.SetDefault(config.NewLogger(cfg.Logging, os.Stderr))
	return cfg, nil
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, err := feedfile.NewRepository(cfg.Posts.Path, cfg.Posts.Render)
	if err != nil {
		return err
	}

	observers := []uniflow.Observer{observe.NewSlogObserver(feed.StoreName, slog.Default())}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		promRecorder := metrics.NewPrometheusRecorder(registry)
		recorder = promRecorder
		observers = append(observers, metrics.StoreObserver(feed.StoreName, promRecorder))
	}

	var jnl *journal.SQLiteJournal
	if cfg.Journal.Enabled {
		jnl, err = journal.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer jnl.Close()
		observers = append(observers, journal.StoreObserver(feed.StoreName, jnl))
	}

	controller := feed.NewController(repo,
		uniflow.WithEffectBuffer(cfg.Store.EffectBuffer),
		uniflow.WithOverflowPolicy(cfg.Store.OverflowPolicy()),
		uniflow.WithObserver(uniflow.MultiObserver(observers)),
	)
	defer controller.Destroy()

	var dispatcher uniflow.Dispatcher[feed.Intent] = controller
	if jnl != nil {
		dispatcher = journal.Journaled(feed.StoreName, dispatcher, jnl)
	}
	if cfg.Metrics.Enabled {
		dispatcher = metrics.Instrumented(feed.StoreName, dispatcher, recorder)
	}
	dispatcher = observe.Logged(feed.StoreName, dispatcher, slog.Default())

	var effectBridge *bridge.EffectBridge
	if cfg.Bridge.Enabled {
		effectBridge, err = bridge.New(cfg.Bridge.URL, cfg.Bridge.Subject, feed.StoreName)
		if err != nil {
			return err
		}
		defer effectBridge.Close()
	}
	go consumeEffects(controller.Store().Effects(), effectBridge)

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg.Metrics.Listen, registry)
	}

	if cfg.Posts.Watch {
		watcher, err := feedfile.NewWatcher(repo.Path(), dispatcher.Dispatch)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if every := cfg.Refresh.Every(); every > 0 {
		scheduler, err := startRefreshScheduler(ctx, dispatcher, every)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Error("scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	dispatcher.Dispatch(ctx, feed.Load{})

	slog.Info("feedd started",
		slog.String("posts", repo.Path()),
		slog.Bool("watch", cfg.Posts.Watch),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("journal", cfg.Journal.Enabled),
		slog.Bool("bridge", cfg.Bridge.Enabled))

	<-ctx.Done()
	slog.Info("shutdown signal received, stopping feedd")
	return nil
}

// consumeEffects is the single consumer of the feed effect stream. It logs
// notices and, when a bridge is configured, forwards every effect. The loop
// ends when Destroy closes the stream.
func consumeEffects(effects <-chan feed.Effect, b *bridge.EffectBridge) {
	for effect := range effects {
		if notice, ok := effect.(feed.Notice); ok {
			slog.Info("notice",
				slog.String("level", string(notice.Level)),
				slog.String("text", notice.Text))
		}
		if b == nil {
			continue
		}
		if err := b.Publish(effect); err != nil {
			slog.Warn("effect forward failed", logfields.Error(err))
		}
	}
}

func startMetricsServer(ctx context.Context, listen string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	server := &http.Server{Addr: listen, Handler: mux}

	go func() {
		slog.Info("metrics server listening", slog.String("addr", listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

func startRefreshScheduler(ctx context.Context, dispatcher uniflow.Dispatcher[feed.Intent], every time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			dispatcher.Dispatch(ctx, feed.Refresh{})
		}),
		gocron.WithName("feed-refresh"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}

	scheduler.Start()
	slog.Info("periodic refresh scheduled", slog.Duration("every", every))
	return scheduler, nil
}
