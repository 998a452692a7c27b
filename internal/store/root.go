package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

var (
	pathAppStore  = patch.Pointer("appStore")
	pathGameStore = patch.Pointer("gameStore")
)

// Emitter receives every commit, in order, while the store lock is held.
// Implementations must not call back into the Root.
type Emitter interface {
	Emit(c patch.Commit)
}

// Option configures a Root.
type Option func(*Root)

// WithEmitter sets the commit sink.
func WithEmitter(e Emitter) Option { return func(r *Root) { r.emitter = e } }

// WithAudioNotifier sets who is told about mute changes.
func WithAudioNotifier(n AudioNotifier) Option { return func(r *Root) { r.games.notifier = n } }

// Root is the authoritative state aggregate. Every mutation runs under one
// lock and produces at most one commit.
type Root struct {
	mu sync.RWMutex
	// hookMu keeps post-commit hooks in commit order once mu is released
	hookMu  sync.Mutex
	seq     uint64
	app     *AppStore
	games   *GameStore
	emitter Emitter
}

// New builds a root store holding the default state.
func New(opts ...Option) *Root {
	r := &Root{app: newAppStore(), games: newGameStore(nil)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Update runs fn as one transaction. When fn fails every change it made is
// rolled back and nothing is emitted. A transaction that changes nothing does
// not advance the seq.
func (r *Root) Update(fn func(tx *Tx) error) (patch.Commit, error) {
	r.mu.Lock()
	c, hooks, err := r.updateLocked(fn)
	r.unlockAndRun(hooks)
	return c, err
}

// unlockAndRun releases mu and then runs hooks. Hooks may read the store but
// must not mutate it.
func (r *Root) unlockAndRun(hooks []func()) {
	if len(hooks) == 0 {
		r.mu.Unlock()
		return
	}
	r.hookMu.Lock()
	r.mu.Unlock()
	defer r.hookMu.Unlock()
	for _, h := range hooks {
		h()
	}
}

func (r *Root) updateLocked(fn func(tx *Tx) error) (patch.Commit, []func(), error) {
	before := r.stateLocked()
	tx := &Tx{root: r}
	r.app.tx, r.games.tx = tx, tx
	defer func() { r.app.tx, r.games.tx = nil, nil }()

	if err := fn(tx); err != nil {
		r.restoreLocked(before)
		return patch.Commit{}, nil, err
	}
	if len(tx.patches) == 0 {
		return patch.Commit{Seq: r.seq}, nil, nil
	}
	r.seq++
	c := patch.Commit{Seq: r.seq, Patches: tx.patches}
	if r.emitter != nil {
		r.emitter.Emit(c)
	}
	return c, tx.hooks, nil
}

func (r *Root) stateLocked() State {
	return State{AppStore: r.app.snapshot(), GameStore: r.games.snapshot()}
}

func (r *Root) restoreLocked(st State) {
	r.app.restore(st.AppStore)
	r.games.restore(st.GameStore)
}

// replace swaps the whole tree and keeps the window boundary informed.
func (tx *Tx) replace(st State) {
	wasMuted := tx.root.games.isMuted
	tx.root.restoreLocked(st)
	if muted := tx.root.games.isMuted; muted != wasMuted {
		tx.afterCommit(func() { tx.root.games.notifyMute(muted) })
	}
}

// Seq is the seq of the last emitted commit.
func (r *Root) Seq() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq
}

// State returns a copy of the current tree.
func (r *Root) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

// Snapshot serializes the current tree together with its seq.
func (r *Root) Snapshot() (patch.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, err := json.Marshal(r.stateLocked())
	if err != nil {
		return patch.Snapshot{}, fmt.Errorf("encode state: %w", err)
	}
	return patch.Snapshot{Seq: r.seq, State: doc}, nil
}

// View runs fn with read access to both stores.
func (r *Root) View(fn func(app *AppStore, games *GameStore)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.app, r.games)
}

// Reset restores both stores to their defaults in one commit.
func (r *Root) Reset() (patch.Commit, error) {
	return r.Update(func(tx *Tx) error {
		def := DefaultState()
		tx.replace(def)
		tx.emit(
			patch.Replace(pathAppStore, def.AppStore),
			patch.Replace(pathGameStore, def.GameStore),
		)
		return nil
	})
}

// LoadApp replaces the app store, typically with persisted settings at
// startup. Game references to characters missing from snap are cleared.
func (r *Root) LoadApp(snap AppStoreSnapshot) (patch.Commit, error) {
	return r.Update(func(tx *Tx) error {
		st := tx.root.stateLocked()
		st.AppStore = AppStoreSnapshot{Language: snap.Language, Characters: map[string]Character{}}
		for _, c := range snap.Characters {
			c = c.normalized()
			st.AppStore.Characters[c.ID] = c
		}
		for id, g := range st.GameStore.Games {
			if _, ok := st.AppStore.Characters[g.Character.String()]; g.Character.IsSet() && !ok {
				g.Character = ""
				st.GameStore.Games[id] = g
				tx.emit(patch.Replace(gamePath(id)+"/character", g.Character))
			}
		}
		tx.replace(st)
		tx.emit(patch.Replace(pathAppStore, st.AppStore))
		return nil
	})
}

// ApplyPatches applies patches sent by a render surface. The result must be a
// valid tree in the form the host itself would serialize; otherwise nothing
// changes and the error wraps ErrInvalidPatch (or ErrCapacityExceeded).
// Accepted patches are re-emitted unchanged as one commit. When they move the
// selection, the newly selected tab's notification is cleared in the same
// commit, as SelectGame does.
func (r *Root) ApplyPatches(ps []patch.Patch) (patch.Commit, error) {
	if len(ps) == 0 {
		return patch.Commit{Seq: r.Seq()}, nil
	}
	for _, p := range ps {
		if !utf8.ValidString(p.Path) || !utf8.Valid(p.Value) {
			return patch.Commit{}, fmt.Errorf("%w: %s holds invalid UTF-8", ErrInvalidPatch, p.Op)
		}
	}
	r.mu.Lock()
	c, hooks, err := r.applyPatchesLocked(ps)
	r.unlockAndRun(hooks)
	return c, err
}

func (r *Root) applyPatchesLocked(ps []patch.Patch) (patch.Commit, []func(), error) {
	cur, err := json.Marshal(r.stateLocked())
	if err != nil {
		return patch.Commit{}, nil, fmt.Errorf("encode state: %w", err)
	}
	next, err := patch.Apply(cur, ps...)
	if err != nil {
		return patch.Commit{}, nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	st, err := ParseState(next)
	if err != nil {
		return patch.Commit{}, nil, err
	}
	// replicas apply ps verbatim, so the tree must survive a decode unchanged
	canon, err := json.Marshal(st)
	if err != nil {
		return patch.Commit{}, nil, fmt.Errorf("encode state: %w", err)
	}
	if !patch.Equal(canon, next) {
		return patch.Commit{}, nil, fmt.Errorf("%w: result is not in canonical form", ErrInvalidPatch)
	}

	prevSelected := r.games.selected
	return r.updateLocked(func(tx *Tx) error {
		out := append([]patch.Patch(nil), ps...)
		if sel := st.GameStore.SelectedGame; sel.IsSet() && sel != prevSelected {
			if g := st.GameStore.Games[sel.String()]; g.HasNotification {
				g.HasNotification = false
				st.GameStore.Games[g.ID] = g
				out = append(out, patch.Replace(gamePath(g.ID)+"/hasNotification", false))
			}
		}
		tx.replace(st)
		tx.emit(out...)
		return nil
	})
}

// AddGame opens a tab. See GameStore.AddGame.
func (r *Root) AddGame(characterID string) (Game, error) {
	var g Game
	_, err := r.Update(func(tx *Tx) (err error) {
		g, err = tx.Games().AddGame(characterID)
		return err
	})
	return g, err
}

// RemoveGame closes a tab. See GameStore.RemoveGame.
func (r *Root) RemoveGame(id string) error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().RemoveGame(id) })
	return err
}

// RemoveSelectedGame closes the selected tab, if any.
func (r *Root) RemoveSelectedGame() error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().RemoveSelectedGame() })
	return err
}

// SelectGame selects a tab by id.
func (r *Root) SelectGame(id string) error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().SelectGame(id) })
	return err
}

// SelectGameIndex selects a tab by display position.
func (r *Root) SelectGameIndex(i int) error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().SelectGameIndex(i) })
	return err
}

// SelectNextGame selects the tab to the right of the selection, cyclically.
func (r *Root) SelectNextGame() {
	_, _ = r.Update(func(tx *Tx) error {
		tx.Games().SelectNextGame()
		return nil
	})
}

// SelectPreviousGame selects the tab to the left of the selection, cyclically.
func (r *Root) SelectPreviousGame() {
	_, _ = r.Update(func(tx *Tx) error {
		tx.Games().SelectPreviousGame()
		return nil
	})
}

// MoveGame reorders a tab. See GameStore.MoveGame.
func (r *Root) MoveGame(srcID, targetID string) error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().MoveGame(srcID, targetID) })
	return err
}

// ToggleMute flips the audio flag and returns the new value.
func (r *Root) ToggleMute() bool {
	var muted bool
	_, _ = r.Update(func(tx *Tx) error {
		muted = tx.Games().ToggleMute()
		return nil
	})
	return muted
}

// SetHasNotification flags or clears a tab notification.
func (r *Root) SetHasNotification(id string, v bool) error {
	_, err := r.Update(func(tx *Tx) error { return tx.Games().SetHasNotification(id, v) })
	return err
}

// AddCharacter stores a character in the roster.
func (r *Root) AddCharacter(c Character) Character {
	_, _ = r.Update(func(tx *Tx) error {
		c = tx.App().AddCharacter(c)
		return nil
	})
	return c
}

// RemoveCharacter drops a character and clears the tabs referencing it.
func (r *Root) RemoveCharacter(id string) error {
	_, err := r.Update(func(tx *Tx) error { return tx.App().RemoveCharacter(id) })
	return err
}

// SetLanguage changes the UI language.
func (r *Root) SetLanguage(lang string) {
	_, _ = r.Update(func(tx *Tx) error {
		tx.App().SetLanguage(lang)
		return nil
	})
}

// IsMuted reports the audio flag.
func (r *Root) IsMuted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games.isMuted
}

// Games returns the tabs in display order.
func (r *Root) Games() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games.Ordered()
}

// Selected returns the selected tab.
func (r *Root) Selected() (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.games.Selected()
}

// Character implements CharacterLookup.
func (r *Root) Character(id string) (Character, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.app.Character(id)
}

// Characters returns the roster.
func (r *Root) Characters() []Character {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.app.Characters()
}

// Language returns the UI language.
func (r *Root) Language() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.app.language
}
