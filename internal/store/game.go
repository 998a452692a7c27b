package store

import "github.com/google/uuid"

// Game is one open tab.
type Game struct {
	ID              string `json:"id"`
	Character       Ref    `json:"character"`
	HasNotification bool   `json:"hasNotification"`
}

func newGame(characterID string) Game {
	return Game{ID: uuid.NewString(), Character: Ref(characterID)}
}

// DisplayName is the name of the referenced character, or "" when the tab has
// no character or the reference no longer resolves.
func (g Game) DisplayName(chars CharacterLookup) string {
	if !g.Character.IsSet() || chars == nil {
		return ""
	}
	c, ok := chars.Character(g.Character.String())
	if !ok {
		return ""
	}
	return c.Name
}
