package statesync

import "errors"

var (
	// ErrOutOfOrder is reported when a commit does not follow the last one seen.
	ErrOutOfOrder = errors.New("commit out of order")
	// ErrDetached is reported once a subscription or replica has been closed.
	ErrDetached = errors.New("detached")
	// ErrSlowConsumer is reported when a subscriber buffer overflowed.
	ErrSlowConsumer = errors.New("subscriber too slow")
	// ErrSnapshotRequested is reported when a surface asks for a second snapshot.
	ErrSnapshotRequested = errors.New("snapshot already requested")
)
