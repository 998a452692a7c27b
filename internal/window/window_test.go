package window

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeBackend) Open(w Window) error                { return f.record("open %d", w.ID) }
func (f *fakeBackend) Close(id int) error                 { return f.record("close %d", id) }
func (f *fakeBackend) Focus(id int) error                 { return f.record("focus %d", id) }
func (f *fakeBackend) Restore(id int) error               { return f.record("restore %d", id) }
func (f *fakeBackend) SetMaximized(id int, v bool) error  { return f.record("max %d %v", id, v) }
func (f *fakeBackend) SetAudioMuted(id int, v bool) error { return f.record("mute %d %v", id, v) }

func TestCreateUsesStoreMuteAndIndex(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRegistry(Options{Backend: fb, Muted: func() bool { return true }})
	a, err := r.Create("http://localhost/renderer/index.html")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Create("http://localhost/renderer/index.html")
	if a.Index != 0 || b.Index != 1 || !a.Muted || b.Partition != "persist:1" {
		t.Fatalf("windows: %+v %+v", a, b)
	}
	if !slices.Contains(fb.calls, fmt.Sprintf("mute %d true", a.ID)) {
		t.Fatalf("backend calls: %v", fb.calls)
	}
}

func TestCloseLastFiresHook(t *testing.T) {
	closed := 0
	r := NewRegistry(Options{Backend: &fakeBackend{}, OnAllClosed: func() { closed++ }})
	a, _ := r.Create("u")
	b, _ := r.Create("u")
	if err := r.Close(a.ID); err != nil || closed != 0 {
		t.Fatalf("close first: err=%v closed=%d", err, closed)
	}
	if err := r.Close(b.ID); err != nil || closed != 1 {
		t.Fatalf("close last: err=%v closed=%d", err, closed)
	}
	if err := r.Close(b.ID); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("want ErrWindowNotFound, got %v", err)
	}
}

func TestNotifyAudioMuteReachesAllWindows(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRegistry(Options{Backend: fb})
	a, _ := r.Create("u")
	b, _ := r.Create("u")
	r.NotifyAudioMute(true)
	for _, w := range r.List() {
		if !w.Muted {
			t.Fatalf("window %d not muted", w.ID)
		}
	}
	for _, want := range []string{fmt.Sprintf("mute %d true", a.ID), fmt.Sprintf("mute %d true", b.ID)} {
		if !slices.Contains(fb.calls, want) {
			t.Fatalf("missing %q in %v", want, fb.calls)
		}
	}
}

func TestFocusPrimaryRestoresMinimized(t *testing.T) {
	fb := &fakeBackend{}
	r := NewRegistry(Options{Backend: fb})
	if _, err := r.FocusPrimary(); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("empty registry: %v", err)
	}
	w, err := r.Activate("u")
	if err != nil {
		t.Fatal(err)
	}
	_ = r.SetMinimized(w.ID, true)
	if _, err := r.FocusPrimary(); err != nil {
		t.Fatal(err)
	}
	n := len(fb.calls)
	if fb.calls[n-2] != fmt.Sprintf("restore %d", w.ID) || fb.calls[n-1] != fmt.Sprintf("focus %d", w.ID) {
		t.Fatalf("calls: %v", fb.calls)
	}
	if again, _ := r.Activate("u"); again.ID != w.ID || len(r.List()) != 1 {
		t.Fatalf("activate should focus the existing window")
	}
}

func TestToggleMaximize(t *testing.T) {
	r := NewRegistry(Options{Backend: &fakeBackend{}})
	w, _ := r.Create("u")
	if v, err := r.ToggleMaximize(w.ID); err != nil || !v {
		t.Fatalf("first toggle: %v %v", v, err)
	}
	if v, _ := r.ToggleMaximize(w.ID); v {
		t.Fatalf("second toggle should restore")
	}
	if _, err := r.ToggleMaximize(99); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("unknown window: %v", err)
	}
}
