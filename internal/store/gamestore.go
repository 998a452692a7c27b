package store

import (
	"slices"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// AudioNotifier receives the window-wide mute flag whenever it changes.
type AudioNotifier interface {
	NotifyAudioMute(muted bool)
}

var (
	pathGames        = patch.Pointer("gameStore", "games")
	pathGamesOrder   = patch.Pointer("gameStore", "gamesOrder")
	pathSelectedGame = patch.Pointer("gameStore", "selectedGame")
	pathIsMuted      = patch.Pointer("gameStore", "isMuted")
)

func gamePath(id string) string { return pathGames + "/" + patch.EscapeToken(id) }

func orderPath(i int) string { return pathGamesOrder + "/" + patch.Index(i) }

// GameStoreSnapshot is the serialized form of a GameStore.
type GameStoreSnapshot struct {
	IsMuted      bool            `json:"isMuted"`
	Games        map[string]Game `json:"games"`
	GamesOrder   []string        `json:"gamesOrder"`
	SelectedGame Ref             `json:"selectedGame"`
}

func defaultGameStoreSnapshot() GameStoreSnapshot {
	return GameStoreSnapshot{Games: map[string]Game{}, GamesOrder: []string{}}
}

// GameStore owns the open tabs, their display order and the selection.
// It is not safe for concurrent use: every mutation goes through Root.Update.
type GameStore struct {
	isMuted  bool
	games    map[string]Game
	order    []string
	selected Ref

	tx       *Tx
	notifier AudioNotifier
}

func newGameStore(n AudioNotifier) *GameStore {
	s := &GameStore{notifier: n}
	s.restore(defaultGameStoreSnapshot())
	return s
}

func (s *GameStore) snapshot() GameStoreSnapshot {
	return GameStoreSnapshot{
		IsMuted:      s.isMuted,
		Games:        cloneMap(s.games),
		GamesOrder:   slices.Clone(s.order),
		SelectedGame: s.selected,
	}
}

func (s *GameStore) restore(snap GameStoreSnapshot) {
	s.isMuted = snap.IsMuted
	s.games = cloneMap(snap.Games)
	s.order = slices.Clone(snap.GamesOrder)
	if s.order == nil {
		s.order = []string{}
	}
	s.selected = snap.SelectedGame
}

// Len is the number of open games.
func (s *GameStore) Len() int { return len(s.games) }

// IsMuted reports the window-wide audio flag.
func (s *GameStore) IsMuted() bool { return s.isMuted }

// Game looks a game up by id.
func (s *GameStore) Game(id string) (Game, bool) {
	g, ok := s.games[id]
	return g, ok
}

// Games returns every game in unspecified order. Use Order for display order.
func (s *GameStore) Games() []Game {
	out := make([]Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out
}

// Order returns the game ids in display order.
func (s *GameStore) Order() []string { return slices.Clone(s.order) }

// Ordered returns the games in display order.
func (s *GameStore) Ordered() []Game {
	out := make([]Game, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.games[id])
	}
	return out
}

// Selected returns the selected game, if any.
func (s *GameStore) Selected() (Game, bool) {
	if !s.selected.IsSet() {
		return Game{}, false
	}
	g, ok := s.games[s.selected.String()]
	return g, ok
}

func (s *GameStore) indexOf(id string) int { return slices.Index(s.order, id) }

// AddGame opens a tab, optionally bound to a character, appends it to the
// order and selects it. The seventh tab is rejected with ErrCapacityExceeded.
func (s *GameStore) AddGame(characterID string) (Game, error) {
	if len(s.games) >= MaxGames {
		return Game{}, ErrCapacityExceeded
	}
	if characterID != "" {
		if _, ok := s.tx.App().Character(characterID); !ok {
			return Game{}, ErrCharacterNotFound
		}
	}
	g := newGame(characterID)
	s.games[g.ID] = g
	s.order = append(s.order, g.ID)
	s.tx.emit(
		patch.Add(gamePath(g.ID), g),
		patch.Add(orderPath(len(s.order)-1), g.ID),
	)
	s.setSelected(Ref(g.ID))
	return g, nil
}

// RemoveGame closes a tab. When the tab was selected the selection moves to
// its predecessor if it was the last tab, otherwise to the last remaining tab
// of the order; it is unset when no tab remains.
func (s *GameStore) RemoveGame(id string) error {
	if _, ok := s.games[id]; !ok {
		return ErrGameNotFound
	}
	idx := s.indexOf(id)
	if s.selected == Ref(id) {
		// detach before the entity goes away
		s.selected = ""
		var next Ref
		switch {
		case len(s.order) <= 1:
		case idx == len(s.order)-1:
			next = Ref(s.order[idx-1])
		default:
			for i := len(s.order) - 1; i >= 0; i-- {
				if s.order[i] != id {
					next = Ref(s.order[i])
					break
				}
			}
		}
		s.selected = next
		s.tx.emit(patch.Replace(pathSelectedGame, next))
	}
	if idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
		s.tx.emit(patch.Remove(orderPath(idx)))
	}
	delete(s.games, id)
	s.tx.emit(patch.Remove(gamePath(id)))
	return nil
}

// RemoveSelectedGame closes the selected tab, if any.
func (s *GameStore) RemoveSelectedGame() error {
	if !s.selected.IsSet() {
		return nil
	}
	return s.RemoveGame(s.selected.String())
}

// SelectGame selects a tab and clears its notification.
func (s *GameStore) SelectGame(id string) error {
	if _, ok := s.games[id]; !ok {
		return ErrGameNotFound
	}
	s.setSelected(Ref(id))
	return nil
}

// SelectGameIndex selects the tab at position i of the display order.
func (s *GameStore) SelectGameIndex(i int) error {
	if i < 0 || i >= len(s.order) {
		return ErrGameNotFound
	}
	s.setSelected(Ref(s.order[i]))
	return nil
}

// SelectNextGame moves the selection one tab to the right, wrapping around.
func (s *GameStore) SelectNextGame() {
	idx := s.selectedIndex()
	if idx < 0 {
		return
	}
	if idx >= len(s.order)-1 {
		s.setSelected(Ref(s.order[0]))
		return
	}
	s.setSelected(Ref(s.order[idx+1]))
}

// SelectPreviousGame moves the selection one tab to the left, wrapping around.
func (s *GameStore) SelectPreviousGame() {
	idx := s.selectedIndex()
	if idx < 0 {
		return
	}
	if idx == 0 {
		s.setSelected(Ref(s.order[len(s.order)-1]))
		return
	}
	s.setSelected(Ref(s.order[idx-1]))
}

func (s *GameStore) selectedIndex() int {
	if !s.selected.IsSet() || len(s.order) == 0 {
		return -1
	}
	return s.indexOf(s.selected.String())
}

// MoveGame takes srcID out of the order and reinserts it at the index
// targetID held before the removal. [A B C] with MoveGame(A, C) gives [B C A].
func (s *GameStore) MoveGame(srcID, targetID string) error {
	oldIndex := s.indexOf(srcID)
	newIndex := s.indexOf(targetID)
	if oldIndex < 0 || newIndex < 0 {
		return ErrGameNotFound
	}
	if oldIndex == newIndex {
		return nil
	}
	s.order = slices.Delete(s.order, oldIndex, oldIndex+1)
	s.order = slices.Insert(s.order, newIndex, srcID)
	s.tx.emit(
		patch.Remove(orderPath(oldIndex)),
		patch.Add(orderPath(newIndex), srcID),
	)
	return nil
}

// ToggleMute flips the window-wide audio flag and tells the window manager.
func (s *GameStore) ToggleMute() bool {
	s.setMuted(!s.isMuted)
	return s.isMuted
}

// SetHasNotification flags or clears a tab's pending notification.
func (s *GameStore) SetHasNotification(id string, v bool) error {
	g, ok := s.games[id]
	if !ok {
		return ErrGameNotFound
	}
	s.setNotification(g, v)
	return nil
}

// ClearCharacter drops every reference to a character.
func (s *GameStore) ClearCharacter(characterID string) {
	for _, id := range s.order {
		g := s.games[id]
		if g.Character != Ref(characterID) {
			continue
		}
		g.Character = ""
		s.games[id] = g
		s.tx.emit(patch.Replace(gamePath(id)+"/character", g.Character))
	}
}

func (s *GameStore) setSelected(ref Ref) {
	if s.selected != ref {
		s.selected = ref
		s.tx.emit(patch.Replace(pathSelectedGame, ref))
	}
	if g, ok := s.games[ref.String()]; ok {
		s.setNotification(g, false)
	}
}

func (s *GameStore) setNotification(g Game, v bool) {
	if g.HasNotification == v {
		return
	}
	g.HasNotification = v
	s.games[g.ID] = g
	s.tx.emit(patch.Replace(gamePath(g.ID)+"/hasNotification", v))
}

func (s *GameStore) setMuted(v bool) {
	if s.isMuted == v {
		return
	}
	s.isMuted = v
	s.tx.emit(patch.Replace(pathIsMuted, v))
	s.tx.afterCommit(func() { s.notifyMute(v) })
}

func (s *GameStore) notifyMute(v bool) {
	if s.notifier != nil {
		s.notifier.NotifyAudioMute(v)
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
