// Package statesync fans store commits out to render surfaces and keeps
// surface replicas consistent with the host tree.
package statesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Source is the authoritative state the hub serves.
type Source interface {
	Snapshot() (patch.Snapshot, error)
	ApplyPatches(ps []patch.Patch) (patch.Commit, error)
	Reset() (patch.Commit, error)
}

// Sink mirrors commits outside the process. Mirror is called from the hub's
// sink worker, never under the store lock.
type Sink interface {
	Mirror(ctx context.Context, c patch.Commit) error
	Close() error
}

// Stats are the hub counters.
type Stats struct {
	Subscribers    int    `json:"subscribers"`
	Commits        uint64 `json:"commits"`
	Detached       uint64 `json:"detached"`
	MirrorDropped  uint64 `json:"mirrorDropped"`
	MirrorFailures uint64 `json:"mirrorFailures"`
}

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets the per-subscription commit buffer.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithSinks adds commit mirrors.
func WithSinks(s ...Sink) Option { return func(h *Hub) { h.sinks = append(h.sinks, s...) } }

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) Option { return func(h *Hub) { h.log = l } }

// Hub distributes commits, in order, to every attached subscription.
type Hub struct {
	mu     sync.Mutex
	src    Source
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
	sinks  []Sink
	sinkCh chan patch.Commit
	log    *slog.Logger

	commits        atomic.Uint64
	detached       atomic.Uint64
	mirrorDropped  atomic.Uint64
	mirrorFailures atomic.Uint64
}

// NewHub builds a hub. The source is set later with SetSource because the
// store needs the hub as its emitter first.
func NewHub(opts ...Option) *Hub {
	h := &Hub{subs: map[uint64]*Subscription{}, buffer: 256, log: slog.Default()}
	for _, o := range opts {
		o(h)
	}
	h.sinkCh = make(chan patch.Commit, h.buffer)
	return h
}

// SetSource binds the hub to the authoritative store.
func (h *Hub) SetSource(src Source) {
	h.mu.Lock()
	h.src = src
	h.mu.Unlock()
}

// AddSink adds a commit mirror. It must be called before Run and before
// commits are emitted concurrently.
func (h *Hub) AddSink(s Sink) { h.sinks = append(h.sinks, s) }

func (h *Hub) source() (Source, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.src == nil {
		return nil, fmt.Errorf("statesync: hub has no source")
	}
	return h.src, nil
}

// Emit implements store.Emitter. It runs under the store lock and never
// blocks: a subscription whose buffer is full is detached.
func (h *Hub) Emit(c patch.Commit) {
	h.commits.Add(1)
	h.mu.Lock()
	for id, s := range h.subs {
		select {
		case s.ch <- c:
		default:
			delete(h.subs, id)
			s.closeLocked(ErrSlowConsumer)
			h.detached.Add(1)
			h.log.Info("surface detached", "subscription", id, "reason", ErrSlowConsumer.Error(), "seq", c.Seq)
		}
	}
	h.mu.Unlock()
	if len(h.sinks) == 0 {
		return
	}
	select {
	case h.sinkCh <- c:
	default:
		h.mirrorDropped.Add(1)
	}
}

// Attach registers a subscription and returns it with a snapshot. Commits
// covered by the snapshot are filtered out of the subscription.
func (h *Hub) Attach() (*Subscription, patch.Snapshot, error) {
	src, err := h.source()
	if err != nil {
		return nil, patch.Snapshot{}, err
	}
	h.mu.Lock()
	h.nextID++
	s := &Subscription{id: h.nextID, hub: h, ch: make(chan patch.Commit, h.buffer)}
	h.subs[s.id] = s
	h.mu.Unlock()

	// the hub lock is released: taking the snapshot grabs the store lock
	snap, err := src.Snapshot()
	if err != nil {
		s.Close()
		return nil, patch.Snapshot{}, err
	}
	s.after = snap.Seq
	return s, snap, nil
}

// Snapshot returns the current tree without subscribing.
func (h *Hub) Snapshot() (patch.Snapshot, error) {
	src, err := h.source()
	if err != nil {
		return patch.Snapshot{}, err
	}
	return src.Snapshot()
}

// Send applies patches coming from a surface.
func (h *Hub) Send(ps []patch.Patch) (patch.Commit, error) {
	src, err := h.source()
	if err != nil {
		return patch.Commit{}, err
	}
	return src.ApplyPatches(ps)
}

// Reset restores the default tree on behalf of a surface.
func (h *Hub) Reset() (patch.Commit, error) {
	src, err := h.source()
	if err != nil {
		return patch.Commit{}, err
	}
	return src.Reset()
}

// Stats returns the hub counters.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	n := len(h.subs)
	h.mu.Unlock()
	return Stats{
		Subscribers:    n,
		Commits:        h.commits.Load(),
		Detached:       h.detached.Load(),
		MirrorDropped:  h.mirrorDropped.Load(),
		MirrorFailures: h.mirrorFailures.Load(),
	}
}

func (h *Hub) remove(s *Subscription, reason error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s.id]; !ok {
		return
	}
	delete(h.subs, s.id)
	s.closeLocked(reason)
}

// Run feeds the sinks until ctx ends, then closes them.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for _, s := range h.sinks {
			if err := s.Close(); err != nil {
				h.log.Warn("close sink", "err", err)
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.sinkCh:
			for _, s := range h.sinks {
				mctx, cancel := context.WithTimeout(ctx, 2*time.Second)
				if err := s.Mirror(mctx, c); err != nil {
					h.mirrorFailures.Add(1)
					h.log.Warn("mirror commit", "seq", c.Seq, "err", err)
				}
				cancel()
			}
		}
	}
}
