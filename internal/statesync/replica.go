package statesync

import (
	"fmt"
	"sync"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Phase is the lifecycle stage of a surface replica.
type Phase int

const (
	Uninitialized Phase = iota
	AwaitingSnapshot
	Live
	Detached
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case AwaitingSnapshot:
		return "awaiting-snapshot"
	case Live:
		return "live"
	case Detached:
		return "detached"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Replica is the read copy of the host tree held by a render surface. It asks
// for one snapshot per lifetime and then follows commits strictly in seq
// order. Commits received while the snapshot is pending are held back and
// replayed once it arrives.
type Replica struct {
	mu      sync.Mutex
	phase   Phase
	seq     uint64
	doc     []byte
	err     error
	pending []patch.Commit
	onApply func(doc []byte, seq uint64)
}

// NewReplica builds an uninitialized replica. onApply, when set, is called
// with the new document after the snapshot and after every applied commit.
func NewReplica(onApply func(doc []byte, seq uint64)) *Replica {
	return &Replica{onApply: onApply}
}

// RequestSnapshot moves the replica to AwaitingSnapshot. It fails if the
// snapshot was already requested.
func (r *Replica) RequestSnapshot() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case Uninitialized:
		r.phase = AwaitingSnapshot
		return nil
	case Detached:
		return r.detachedErr()
	}
	return ErrSnapshotRequested
}

// ApplySnapshot installs the initial tree and goes Live.
func (r *Replica) ApplySnapshot(snap patch.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case Detached:
		return r.detachedErr()
	case Live:
		return ErrSnapshotRequested
	}
	r.phase = Live
	r.seq = snap.Seq
	r.doc = append([]byte(nil), snap.State...)
	r.notify()
	pending := r.pending
	r.pending = nil
	for _, c := range pending {
		if err := r.applyLocked(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyCommit applies one commit. Commits already covered are skipped; a gap
// detaches the replica with ErrOutOfOrder.
func (r *Replica) ApplyCommit(c patch.Commit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case Detached:
		return r.detachedErr()
	case Uninitialized, AwaitingSnapshot:
		r.pending = append(r.pending, c)
		return nil
	}
	return r.applyLocked(c)
}

func (r *Replica) applyLocked(c patch.Commit) error {
	if c.Seq <= r.seq {
		return nil
	}
	if c.Seq != r.seq+1 {
		r.detachLocked(fmt.Errorf("%w: want %d, got %d", ErrOutOfOrder, r.seq+1, c.Seq))
		return r.err
	}
	doc, err := patch.Apply(r.doc, c.Patches...)
	if err != nil {
		r.detachLocked(fmt.Errorf("apply commit %d: %w", c.Seq, err))
		return r.err
	}
	r.doc, r.seq = doc, c.Seq
	r.notify()
	return nil
}

func (r *Replica) notify() {
	if r.onApply != nil {
		r.onApply(r.doc, r.seq)
	}
}

// Detach ends the replica lifetime. A nil reason reads as ErrDetached.
func (r *Replica) Detach(reason error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(reason)
}

func (r *Replica) detachLocked(reason error) {
	if r.phase == Detached {
		return
	}
	if reason == nil {
		reason = ErrDetached
	}
	r.phase = Detached
	r.err = reason
	r.pending = nil
}

func (r *Replica) detachedErr() error {
	if r.err != nil {
		return r.err
	}
	return ErrDetached
}

// Phase returns the lifecycle stage.
func (r *Replica) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Seq returns the seq of the last applied commit.
func (r *Replica) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Document returns a copy of the current tree.
func (r *Replica) Document() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.doc...)
}

// Err returns why the replica detached.
func (r *Replica) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
