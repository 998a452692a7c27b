package surface

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/payb0y/lindo-clean/internal/app/shell/config"
	"github.com/payb0y/lindo-clean/internal/app/shell/handler"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/pkg/patch"
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
	srv := httptest.NewServer(handler.StateStreamHandler(sc))
	sc.Start(srv.URL)
	t.Cleanup(func() {
		srv.Close()
		_ = sc.Close()
	})
	return sc, srv.URL
}

func waitSeq(t *testing.T, c *Client, seq uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.Seq() < seq {
		if time.Now().After(deadline) {
			t.Fatalf("replica stuck at seq %d, want %d (phase %s, err %v)", c.Seq(), seq, c.Phase(), c.Err())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func sameTree(t *testing.T, sc *svc.ServiceContext, c *Client) {
	t.Helper()
	want, err := json.Marshal(sc.Store.State())
	if err != nil {
		t.Fatal(err)
	}
	if !patch.Equal(want, c.Document()) {
		t.Fatalf("replica differs:\nhost    %s\nreplica %s", want, c.Document())
	}
}

func TestReplicaFollowsHost(t *testing.T) {
	sc, url := startHost(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := Dial(ctx, url, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := Dial(ctx, url, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if a.Phase() != statesync.Live {
		t.Fatalf("phase %s", a.Phase())
	}

	for i := 0; i < 3; i++ {
		if _, err := sc.Store.AddGame(""); err != nil {
			t.Fatal(err)
		}
	}
	order := sc.Store.Games()
	if err := sc.Store.MoveGame(order[0].ID, order[2].ID); err != nil {
		t.Fatal(err)
	}
	want := sc.Store.Seq() + 1
	if err := a.SendPatch(patch.Replace("/gameStore/isMuted", true)); err != nil {
		t.Fatal(err)
	}
	waitSeq(t, a, want)
	waitSeq(t, b, want)
	sameTree(t, sc, a)
	sameTree(t, sc, b)

	if err := b.Reset(); err != nil {
		t.Fatal(err)
	}
	waitSeq(t, a, want+1)
	waitSeq(t, b, want+1)
	def, _ := json.Marshal(store.DefaultState())
	if !patch.Equal(a.Document(), def) || !patch.Equal(b.Document(), def) {
		t.Fatalf("reset not seen by both surfaces")
	}
}

func TestRejectedPatchReportsError(t *testing.T) {
	_, url := startHost(t)
	errs := make(chan patch.ErrorPayload, 1)
	c, err := Dial(context.Background(), url, Options{OnError: func(e patch.ErrorPayload) { errs <- e }})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.SendPatch(patch.Add("/gameStore/bogus", 1)); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-errs:
		if e.Code != "invalid_patch" {
			t.Fatalf("code %q", e.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no error frame")
	}
}

func TestCloseDetaches(t *testing.T) {
	_, url := startHost(t)
	c, err := Dial(context.Background(), url, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Close()
	if c.Phase() != statesync.Detached {
		t.Fatalf("phase %s after close", c.Phase())
	}
}
