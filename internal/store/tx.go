package store

import "github.com/payb0y/lindo-clean/pkg/patch"

// Tx is one atomic mutation of the root store. It is only valid inside the
// function passed to Root.Update.
type Tx struct {
	root    *Root
	patches []patch.Patch
	hooks   []func()
}

// Games returns the game store bound to this transaction.
func (tx *Tx) Games() *GameStore { return tx.root.games }

// App returns the app store bound to this transaction.
func (tx *Tx) App() *AppStore { return tx.root.app }

func (tx *Tx) emit(ps ...patch.Patch) { tx.patches = append(tx.patches, ps...) }

// afterCommit runs fn once the commit has been emitted and the store lock is
// released. Hooks run in commit order and are dropped when the transaction
// rolls back.
func (tx *Tx) afterCommit(fn func()) { tx.hooks = append(tx.hooks, fn) }
