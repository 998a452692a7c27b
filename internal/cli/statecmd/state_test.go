package statecmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/payb0y/lindo-clean/internal/app/shell/config"
	"github.com/payb0y/lindo-clean/internal/app/shell/handler"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
)

func startHost(t *testing.T) (*svc.ServiceContext, string) {
	t.Helper()
	var c config.Config
	c.Shell.AppName = "lindo"
	c.Sync.Buffer = 64
	c.Settings.Disabled = true
	c.PatchLog.Type = "noop"
	sc, err := svc.NewServiceContext(c)
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	mux.Handle("/api/v1/state", handler.StateSnapshotHandler(sc))
	mux.Handle("/api/v1/state/reset", handler.StateResetHandler(sc))
	mux.Handle("/api/v1/state/ws", handler.StateStreamHandler(sc))
	srv := httptest.NewServer(mux)
	sc.Start(srv.URL)
	t.Cleanup(func() {
		srv.Close()
		_ = sc.Close()
	})
	return sc, srv.URL
}

func TestDumpYAML(t *testing.T) {
	sc, url := startHost(t)
	if _, err := sc.Store.AddGame(""); err != nil {
		t.Fatal(err)
	}
	snap, err := Fetch(context.Background(), url)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, snap, "yaml"); err != nil {
		t.Fatal(err)
	}
	var out struct {
		Seq   uint64         `yaml:"seq"`
		State map[string]any `yaml:"state"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("yaml output: %v\n%s", err, buf.String())
	}
	if out.Seq != sc.Store.Seq() || out.State["gameStore"] == nil {
		t.Fatalf("dump %+v", out)
	}
	if err := Render(&buf, snap, "toml"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestResetCommand(t *testing.T) {
	sc, url := startHost(t)
	sc.Store.ToggleMute()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"reset", "--url", url})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if sc.Store.IsMuted() || !strings.HasPrefix(out.String(), "reset at seq") {
		t.Fatalf("reset output %q muted=%v", out.String(), sc.Store.IsMuted())
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	sc, url := startHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, url, &buf) }()

	deadline := time.Now().Add(5 * time.Second)
	for sc.Hub.Stats().Subscribers == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	if !strings.Contains(buf.String(), "seq ") {
		t.Fatalf("no snapshot line: %q", buf.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
