// Package window tracks the game windows of the shell and forwards window
// level commands (focus, maximize, audio) to the platform backend.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrWindowNotFound is returned for an unknown window id.
var ErrWindowNotFound = errors.New("window not found")

// Window is one game window.
type Window struct {
	ID        int    `json:"id"`
	Index     int    `json:"index"`
	URL       string `json:"url"`
	Partition string `json:"partition"`
	Muted     bool   `json:"muted"`
	Maximized bool   `json:"maximized"`
	Minimized bool   `json:"minimized"`
}

// Backend performs window operations on the platform. Calls are made without
// any registry lock held.
type Backend interface {
	Open(w Window) error
	Close(id int) error
	Focus(id int) error
	Restore(id int) error
	SetMaximized(id int, maximized bool) error
	SetAudioMuted(id int, muted bool) error
}

// Options configures a Registry.
type Options struct {
	Backend Backend
	// Muted reports the current store mute flag for new windows.
	Muted func() bool
	// OnAllClosed fires when the last window closes.
	OnAllClosed func()
	Logger      *slog.Logger
}

// Registry holds the open windows in creation order. The first window is the
// primary one.
type Registry struct {
	mu      sync.Mutex
	windows []Window
	nextID  int

	backend     Backend
	muted       func() bool
	onAllClosed func()
	log         *slog.Logger
}

// NewRegistry builds an empty registry. A nil backend records state only.
func NewRegistry(o Options) *Registry {
	r := &Registry{backend: o.Backend, muted: o.Muted, onAllClosed: o.OnAllClosed, log: o.Logger}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.backend == nil {
		r.backend = NewLogBackend(r.log)
	}
	return r
}

// Create opens a window on url. Its index is the number of windows open
// before it and it starts with the store's mute state.
func (r *Registry) Create(url string) (Window, error) {
	muted := false
	if r.muted != nil {
		muted = r.muted()
	}
	r.mu.Lock()
	r.nextID++
	w := Window{ID: r.nextID, Index: len(r.windows), URL: url, Muted: muted}
	w.Partition = fmt.Sprintf("persist:%d", w.Index)
	r.windows = append(r.windows, w)
	r.mu.Unlock()

	r.log.Debug("create window", "id", w.ID, "index", w.Index)
	if err := r.backend.Open(w); err != nil {
		r.drop(w.ID)
		return Window{}, fmt.Errorf("open window: %w", err)
	}
	if err := r.backend.SetAudioMuted(w.ID, muted); err != nil {
		r.log.Warn("set window audio", "id", w.ID, "err", err)
	}
	return w, nil
}

// Close closes a window. Closing the last one fires OnAllClosed.
func (r *Registry) Close(id int) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	if err := r.backend.Close(id); err != nil {
		return fmt.Errorf("close window %d: %w", id, err)
	}
	if r.drop(id) == 0 && r.onAllClosed != nil {
		r.onAllClosed()
	}
	return nil
}

// drop removes a window and returns how many remain.
func (r *Registry) drop(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = slices.DeleteFunc(r.windows, func(w Window) bool { return w.ID == id })
	return len(r.windows)
}

// Get returns a window by id.
func (r *Registry) Get(id int) (Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return Window{}, ErrWindowNotFound
	}
	return r.windows[i], nil
}

// List returns the open windows in creation order.
func (r *Registry) List() []Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.windows)
}

func (r *Registry) indexLocked(id int) int {
	return slices.IndexFunc(r.windows, func(w Window) bool { return w.ID == id })
}

func (r *Registry) update(id int, fn func(w *Window)) (Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return Window{}, ErrWindowNotFound
	}
	fn(&r.windows[i])
	return r.windows[i], nil
}

// Focus brings a window to the front.
func (r *Registry) Focus(id int) error {
	if _, err := r.update(id, func(w *Window) { w.Minimized = false }); err != nil {
		return err
	}
	return r.backend.Focus(id)
}

// ToggleMaximize flips the maximized state and returns the new value.
func (r *Registry) ToggleMaximize(id int) (bool, error) {
	w, err := r.update(id, func(w *Window) { w.Maximized = !w.Maximized })
	if err != nil {
		return false, err
	}
	return w.Maximized, r.backend.SetMaximized(id, w.Maximized)
}

// SetMinimized records that the platform minimized a window.
func (r *Registry) SetMinimized(id int, v bool) error {
	_, err := r.update(id, func(w *Window) { w.Minimized = v })
	return err
}

// SetAudioMute mutes or unmutes one window.
func (r *Registry) SetAudioMute(id int, muted bool) error {
	if _, err := r.update(id, func(w *Window) { w.Muted = muted }); err != nil {
		return err
	}
	return r.backend.SetAudioMuted(id, muted)
}

// NotifyAudioMute applies the store mute flag to every window.
func (r *Registry) NotifyAudioMute(muted bool) {
	r.mu.Lock()
	ids := make([]int, len(r.windows))
	for i := range r.windows {
		r.windows[i].Muted = muted
		ids[i] = r.windows[i].ID
	}
	r.mu.Unlock()
	for _, id := range ids {
		if err := r.backend.SetAudioMuted(id, muted); err != nil {
			r.log.Warn("set window audio", "id", id, "err", err)
		}
	}
}

// FocusPrimary restores the first window if minimized and focuses it. It is
// used when a second instance of the shell starts.
func (r *Registry) FocusPrimary() (Window, error) {
	r.mu.Lock()
	if len(r.windows) == 0 {
		r.mu.Unlock()
		return Window{}, ErrWindowNotFound
	}
	w := r.windows[0]
	r.windows[0].Minimized = false
	r.mu.Unlock()

	if w.Minimized {
		if err := r.backend.Restore(w.ID); err != nil {
			return w, err
		}
		w.Minimized = false
	}
	return w, r.backend.Focus(w.ID)
}

// Activate focuses the primary window, or creates one on url when none is open.
func (r *Registry) Activate(url string) (Window, error) {
	w, err := r.FocusPrimary()
	if errors.Is(err, ErrWindowNotFound) {
		return r.Create(url)
	}
	return w, err
}
