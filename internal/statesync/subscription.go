package statesync

import (
	"context"
	"fmt"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Subscription receives the commits following a snapshot.
type Subscription struct {
	id    uint64
	hub   *Hub
	ch    chan patch.Commit
	after uint64
	err   error
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() uint64 { return s.id }

// Next blocks until the next commit after the snapshot. Once the subscription
// is closed it returns the reason, ErrDetached for a regular close.
func (s *Subscription) Next(ctx context.Context) (patch.Commit, error) {
	for {
		select {
		case <-ctx.Done():
			return patch.Commit{}, ctx.Err()
		case c, ok := <-s.ch:
			if !ok {
				return patch.Commit{}, s.err
			}
			if c.Seq <= s.after {
				continue
			}
			if c.Seq != s.after+1 {
				s.hub.remove(s, ErrOutOfOrder)
				return patch.Commit{}, fmt.Errorf("%w: want %d, got %d", ErrOutOfOrder, s.after+1, c.Seq)
			}
			s.after = c.Seq
			return c, nil
		}
	}
}

// Close detaches the subscription. Nothing is buffered afterwards.
func (s *Subscription) Close() { s.hub.remove(s, ErrDetached) }

// closeLocked runs under the hub lock, which also guards every send on ch.
func (s *Subscription) closeLocked(reason error) {
	s.err = reason
	close(s.ch)
}
