package store

import (
	"strings"

	"github.com/google/uuid"
)

// Character is an account the shell can log a tab into. Characters are owned
// by the app store roster; games only reference them.
type Character struct {
	ID       string `json:"id"`
	Account  string `json:"account"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// NewCharacter builds a character with a fresh id.
func NewCharacter(account, password, name string) Character {
	return Character{ID: uuid.NewString(), Account: account, Password: password, Name: name}
}

// normalized fills a missing id and trims the display fields.
func (c Character) normalized() Character {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	c.Account = strings.TrimSpace(c.Account)
	c.Name = strings.TrimSpace(c.Name)
	return c
}

// CharacterLookup resolves character references.
type CharacterLookup interface {
	Character(id string) (Character, bool)
}
