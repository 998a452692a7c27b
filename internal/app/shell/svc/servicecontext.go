package svc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/payb0y/lindo-clean/internal/app/shell/config"
	"github.com/payb0y/lindo-clean/internal/assets"
	"github.com/payb0y/lindo-clean/internal/handoff"
	"github.com/payb0y/lindo-clean/internal/patchlog"
	"github.com/payb0y/lindo-clean/internal/settings"
	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/internal/telemetry"
	"github.com/payb0y/lindo-clean/internal/window"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

type ServiceContext struct {
	Config config.Config

	Store     *store.Root
	Hub       *statesync.Hub
	Windows   *window.Registry
	Handoff   *handoff.Provider
	Assets    *assets.Notifier
	Telemetry *telemetry.Provider
	Metrics   *telemetry.ShellMetrics

	settings *settings.Repo
	watcher  *assets.Watcher

	baseURL  string
	quit     chan struct{}
	quitOnce sync.Once
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServiceContext wires the store, the patch hub and their collaborators.
// Nothing runs until Start.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	tp, err := telemetry.NewProvider(context.Background(), c.Telemetry)
	if err != nil {
		return nil, err
	}
	sc := &ServiceContext{
		Config:    c,
		Assets:    assets.NewNotifier(),
		Telemetry: tp,
		Metrics:   tp.Metrics,
		quit:      make(chan struct{}),
	}

	mirror, err := patchlog.New(c.PatchLog)
	if err != nil {
		return nil, fmt.Errorf("patch log: %w", err)
	}
	sc.Hub = statesync.NewHub(
		statesync.WithBuffer(c.Sync.Buffer),
		statesync.WithSinks(mirror),
		statesync.WithLogger(slog.Default().With("component", "statesync")),
	)

	sc.Windows = window.NewRegistry(window.Options{
		Muted:       func() bool { return sc.Store.IsMuted() },
		OnAllClosed: sc.onAllClosed,
		Logger:      slog.Default().With("component", "window"),
	})
	sc.Store = store.New(
		store.WithEmitter(countingEmitter{next: sc.Hub, metrics: sc.Metrics}),
		store.WithAudioNotifier(sc.Windows),
	)
	sc.Hub.SetSource(sc.Store)

	if !c.Settings.Disabled {
		if err := sc.loadSettings(c.Settings); err != nil {
			return nil, err
		}
	}
	sc.defaultLanguage(c.Shell.Locale)

	sc.Handoff, err = handoff.New(handoff.Options{AppName: c.Shell.AppName, Packaged: c.Shell.Packaged})
	if err != nil {
		return nil, err
	}

	if c.Assets.Watch {
		debounce := time.Duration(c.Assets.DebounceMillis) * time.Millisecond
		sc.watcher, err = assets.NewWatcher(c.Assets.GameDir, debounce, sc.Assets.Publish, slog.Default().With("component", "assets"))
		if err != nil {
			logx.Errorf("asset watcher disabled: %v", err)
			sc.watcher = nil
		}
	}

	err = sc.Metrics.ObserveGauges(telemetry.Gauges{
		OpenGames:   func() int64 { return int64(len(sc.Store.Games())) },
		Subscribers: func() int64 { return int64(sc.Hub.Stats().Subscribers) },
		Windows:     func() int64 { return int64(len(sc.Windows.List())) },
	})
	if err != nil {
		return nil, fmt.Errorf("observe gauges: %w", err)
	}
	return sc, nil
}

// MustNewServiceContext panics when the service context cannot be built.
func MustNewServiceContext(c config.Config) *ServiceContext {
	sc, err := NewServiceContext(c)
	if err != nil {
		logx.Must(err)
	}
	return sc
}

func (sc *ServiceContext) loadSettings(c config.SettingsConf) error {
	if c.Secret == "" {
		if driver := settings.Driver(c.Driver, c.DSN); driver != "sqlite" {
			return fmt.Errorf("settings: a secret is required with the %s driver", driver)
		}
		slog.Warn("settings: no secret configured, character passwords are sealed with the install salt only")
	}
	db, err := settings.Open(c.Driver, c.DSN)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	repo, err := settings.NewRepo(db, c.Secret)
	if err != nil {
		return err
	}
	snap, found, err := repo.LoadApp(context.Background())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if found {
		if _, err := sc.Store.LoadApp(snap); err != nil {
			return fmt.Errorf("restore settings: %w", err)
		}
	}
	sc.settings = repo
	// added after the restore so loading does not write the same rows back
	sc.Hub.AddSink(settings.NewPersister(repo, sc.Store))
	return nil
}

func (sc *ServiceContext) defaultLanguage(locale string) {
	if sc.Store.Language() != "" {
		return
	}
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	if lang, ok := store.LanguageFromLocale(locale); ok {
		sc.Store.SetLanguage(lang)
	}
}

// Start runs the background workers and publishes baseURL to context
// requests. The first window opens here when configured.
func (sc *ServiceContext) Start(baseURL string) {
	ctx, cancel := context.WithCancel(context.Background())
	sc.cancel = cancel
	sc.baseURL = baseURL

	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		sc.Hub.Run(ctx)
	}()
	if sc.watcher != nil {
		sc.wg.Add(1)
		go func() {
			defer sc.wg.Done()
			sc.watcher.Run(ctx)
		}()
	}

	sc.Handoff.Ready(baseURL)
	if sc.Config.Shell.OpenWindowOnStart {
		if _, err := sc.Windows.Create(sc.RendererURL()); err != nil {
			logx.Errorf("open first window: %v", err)
		}
	}
}

// BaseURL is the address surfaces load assets from.
func (sc *ServiceContext) BaseURL() string { return sc.baseURL }

// RendererURL is the page a new window loads.
func (sc *ServiceContext) RendererURL() string { return sc.baseURL + "/renderer/index.html" }

// Quit is closed when the last window closes and the shell should exit.
func (sc *ServiceContext) Quit() <-chan struct{} { return sc.quit }

func (sc *ServiceContext) onAllClosed() {
	if !sc.Config.Shell.QuitOnAllClosed {
		return
	}
	sc.quitOnce.Do(func() { close(sc.quit) })
}

// Close stops the workers, flushes the sinks and shuts telemetry down.
func (sc *ServiceContext) Close() error {
	if sc.cancel != nil {
		sc.cancel()
	}
	sc.wg.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sc.Telemetry.Shutdown(ctx)
}

// countingEmitter counts commits on their way to the hub.
type countingEmitter struct {
	next    store.Emitter
	metrics *telemetry.ShellMetrics
}

func (e countingEmitter) Emit(c patch.Commit) {
	e.metrics.Commits.Add(context.Background(), 1)
	e.next.Emit(c)
}
