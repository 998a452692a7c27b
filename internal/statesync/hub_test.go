package statesync

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

func newHost(t *testing.T, opts ...Option) (*Hub, *store.Root) {
	t.Helper()
	hub := NewHub(opts...)
	root := store.New(store.WithEmitter(hub))
	hub.SetSource(root)
	return hub, root
}

// follow attaches a replica and feeds it until want seq is reached.
func follow(t *testing.T, hub *Hub) (*Subscription, *Replica) {
	t.Helper()
	sub, snap, err := hub.Attach()
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	rep := NewReplica(nil)
	if err := rep.RequestSnapshot(); err != nil {
		t.Fatal(err)
	}
	if err := rep.ApplySnapshot(snap); err != nil {
		t.Fatal(err)
	}
	return sub, rep
}

func catchUp(t *testing.T, sub *Subscription, rep *Replica, seq uint64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for rep.Seq() < seq {
		c, err := sub.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if err := rep.ApplyCommit(c); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
}

func mustMatch(t *testing.T, rep *Replica, root *store.Root) {
	t.Helper()
	snap, err := root.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !patch.Equal(snap.State, rep.Document()) {
		t.Fatalf("replica diverged\nhost:    %s\nreplica: %s", snap.State, rep.Document())
	}
}

func TestAttachThenFollow(t *testing.T) {
	hub, root := newHost(t)
	g, _ := root.AddGame("")
	sub, rep := follow(t, hub)
	defer sub.Close()

	root.ToggleMute()
	h, _ := root.AddGame("")
	_ = root.MoveGame(h.ID, g.ID)
	_ = root.RemoveGame(g.ID)

	catchUp(t, sub, rep, root.Seq())
	mustMatch(t, rep, root)
}

func TestResetSeenByEverySurface(t *testing.T) {
	hub, root := newHost(t)
	subA, repA := follow(t, hub)
	subB, repB := follow(t, hub)
	defer subA.Close()
	defer subB.Close()

	root.AddCharacter(store.NewCharacter("acc", "pw", "Cra"))
	_, _ = root.AddGame("")
	if _, err := hub.Reset(); err != nil {
		t.Fatal(err)
	}
	for _, x := range []struct {
		sub *Subscription
		rep *Replica
	}{{subA, repA}, {subB, repB}} {
		catchUp(t, x.sub, x.rep, root.Seq())
		mustMatch(t, x.rep, root)
	}
}

func TestSendReachesSender(t *testing.T) {
	hub, root := newHost(t)
	sub, rep := follow(t, hub)
	defer sub.Close()

	c, err := hub.Send([]patch.Patch{patch.Replace("/appStore/language", "en")})
	if err != nil {
		t.Fatal(err)
	}
	catchUp(t, sub, rep, c.Seq)
	mustMatch(t, rep, root)

	if _, err := hub.Send([]patch.Patch{patch.Replace("/gameStore/selectedGame", "ghost")}); !errors.Is(err, store.ErrInvalidPatch) {
		t.Fatalf("want ErrInvalidPatch, got %v", err)
	}
}

func TestSlowConsumerIsDetached(t *testing.T) {
	hub, root := newHost(t, WithBuffer(2))
	sub, _, err := hub.Attach()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		root.ToggleMute()
	}
	ctx := context.Background()
	var last error
	for last == nil {
		_, last = sub.Next(ctx)
	}
	if !errors.Is(last, ErrSlowConsumer) {
		t.Fatalf("want ErrSlowConsumer, got %v", last)
	}
	if st := hub.Stats(); st.Subscribers != 0 || st.Detached != 1 {
		t.Fatalf("stats: %+v", st)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	hub, root := newHost(t)
	sub, _, err := hub.Attach()
	if err != nil {
		t.Fatal(err)
	}
	sub.Close()
	sub.Close()
	root.ToggleMute()
	if _, err := sub.Next(context.Background()); !errors.Is(err, ErrDetached) {
		t.Fatalf("want ErrDetached, got %v", err)
	}
}

// Surfaces attaching while the host mutates must converge on the host tree.
func TestConcurrentAttachConverges(t *testing.T) {
	hub, root := newHost(t, WithBuffer(4096))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 300; i++ {
			if g, err := root.AddGame(""); err == nil && i%2 == 0 {
				_ = root.RemoveGame(g.ID)
			} else {
				_ = root.RemoveSelectedGame()
			}
			root.ToggleMute()
		}
	}()

	type surface struct {
		sub *Subscription
		rep *Replica
	}
	var surfaces []surface
	for i := 0; i < 8; i++ {
		sub, rep := follow(t, hub)
		surfaces = append(surfaces, surface{sub, rep})
		runtime.Gosched()
	}
	wg.Wait()

	for _, s := range surfaces {
		catchUp(t, s.sub, s.rep, root.Seq())
		mustMatch(t, s.rep, root)
		s.sub.Close()
	}
}

type memSink struct {
	mu      sync.Mutex
	commits []patch.Commit
	closed  bool
}

func (m *memSink) Mirror(_ context.Context, c patch.Commit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commits = append(m.commits, c)
	return nil
}

func (m *memSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commits)
}

func TestSinksReceiveCommits(t *testing.T) {
	sink := &memSink{}
	hub, root := newHost(t, WithSinks(sink))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	root.ToggleMute()
	root.SetLanguage("en")

	deadline := time.Now().Add(5 * time.Second)
	for sink.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("sink got %d commits", sink.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
	if !sink.closed {
		t.Fatalf("sink should be closed when the hub stops")
	}
}
