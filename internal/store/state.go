package store

import (
	"encoding/json"
	"fmt"
)

// State is the full serialized tree shared with render surfaces and persisted
// between runs.
type State struct {
	AppStore  AppStoreSnapshot  `json:"appStore"`
	GameStore GameStoreSnapshot `json:"gameStore"`
}

// DefaultState is the tree of a fresh or reset store.
func DefaultState() State {
	return State{AppStore: defaultAppStoreSnapshot(), GameStore: defaultGameStoreSnapshot()}
}

// ParseState decodes and validates a serialized tree.
func ParseState(doc []byte) (State, error) {
	if err := validateDocument(doc); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	var st State
	if err := json.Unmarshal(doc, &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := st.Check(); err != nil {
		return State{}, err
	}
	return st, nil
}

// Check verifies the cross-entity invariants the schema cannot express.
func (st State) Check() error {
	gs := st.GameStore
	if len(gs.Games) > MaxGames {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, ErrCapacityExceeded)
	}
	for id, c := range st.AppStore.Characters {
		if c.ID != id {
			return fmt.Errorf("%w: character key %q holds id %q", ErrInvalidPatch, id, c.ID)
		}
	}
	for id, g := range gs.Games {
		if g.ID != id {
			return fmt.Errorf("%w: game key %q holds id %q", ErrInvalidPatch, id, g.ID)
		}
		if g.Character.IsSet() {
			if _, ok := st.AppStore.Characters[g.Character.String()]; !ok {
				return fmt.Errorf("%w: game %q references unknown character %q", ErrInvalidPatch, id, g.Character)
			}
		}
	}
	if len(gs.GamesOrder) != len(gs.Games) {
		return fmt.Errorf("%w: gamesOrder has %d ids for %d games", ErrInvalidPatch, len(gs.GamesOrder), len(gs.Games))
	}
	seen := make(map[string]struct{}, len(gs.GamesOrder))
	for _, id := range gs.GamesOrder {
		if _, ok := gs.Games[id]; !ok {
			return fmt.Errorf("%w: gamesOrder references unknown game %q", ErrInvalidPatch, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: gamesOrder lists %q twice", ErrInvalidPatch, id)
		}
		seen[id] = struct{}{}
	}
	if gs.SelectedGame.IsSet() {
		if _, ok := gs.Games[gs.SelectedGame.String()]; !ok {
			return fmt.Errorf("%w: selectedGame %q does not exist", ErrInvalidPatch, gs.SelectedGame)
		}
	}
	return nil
}
