// Package shell assembles the host process: the go-zero REST service with the
// state API, the static asset routes and the optional gRPC state sync.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/zeromicro/go-zero/rest"

	"github.com/payb0y/lindo-clean/internal/app/shell/config"
	"github.com/payb0y/lindo-clean/internal/app/shell/handler"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/assets"
	"github.com/payb0y/lindo-clean/internal/transport/grpcsync"
)

// App is one running shell host.
type App struct {
	Config config.Config
	Ctx    *svc.ServiceContext

	server *rest.Server
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New resolves the listen port and builds the service. The port is searched
// upward from the configured one when FindFreePort is set.
func New(c config.Config) (*App, error) {
	if c.Shell.FindFreePort {
		port, err := assets.FindPort(c.Host, c.Port)
		if err != nil {
			return nil, err
		}
		c.Port = port
	}
	sc, err := svc.NewServiceContext(c)
	if err != nil {
		return nil, err
	}

	static := assets.Handler(c.Assets)
	server, err := rest.NewServer(c.RestConf,
		rest.WithNotFoundHandler(http.HandlerFunc(sc.Telemetry.HTTPMiddleware(static.ServeHTTP))),
	)
	if err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("rest server: %w", err)
	}
	handler.RegisterHandlers(server, sc)
	return &App{Config: c, Ctx: sc, server: server}, nil
}

// BaseURL is where surfaces reach the host.
func (a *App) BaseURL() string {
	host := a.Config.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, a.Config.Port)
}

// Start serves in the background.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.server.Start()
	}()

	if a.Config.Grpc.Enabled {
		gs := grpcsync.NewServer(a.Ctx.Hub, a.Ctx.Metrics, slog.Default().With("component", "grpcsync"))
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := gs.Serve(ctx, a.Config.Grpc.Addr); err != nil {
				slog.Error("state sync gRPC stopped", "err", err)
			}
		}()
	}

	a.Ctx.Start(a.BaseURL())
	slog.Info("shell host started", "url", a.BaseURL(), "grpc", a.Config.Grpc.Enabled)
}

// Wait blocks until ctx ends or the last window closes.
func (a *App) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-a.Ctx.Quit():
		slog.Info("last window closed")
	}
}

// Stop shuts everything down.
func (a *App) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.server.Stop()
	a.wg.Wait()
	return a.Ctx.Close()
}
