package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

var (
	pathLanguage   = patch.Pointer("appStore", "language")
	pathCharacters = patch.Pointer("appStore", "characters")
)

func characterPath(id string) string { return pathCharacters + "/" + patch.EscapeToken(id) }

// LanguageKeys are the UI languages the renderer ships translations for.
var LanguageKeys = []string{"fr", "en", "es"}

// LanguageFromLocale maps an OS locale such as "en-US" or "fr_FR.UTF-8" to a
// supported language key.
func LanguageFromLocale(locale string) (string, bool) {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	lang, _, _ = strings.Cut(lang, "_")
	if slices.Contains(LanguageKeys, lang) {
		return lang, true
	}
	return "", false
}

// AppStoreSnapshot is the serialized form of an AppStore.
type AppStoreSnapshot struct {
	Language   string               `json:"language"`
	Characters map[string]Character `json:"characters"`
}

func defaultAppStoreSnapshot() AppStoreSnapshot {
	return AppStoreSnapshot{Characters: map[string]Character{}}
}

// AppStore holds the application settings: the UI language and the character
// roster games may reference.
type AppStore struct {
	language   string
	characters map[string]Character

	tx *Tx
}

func newAppStore() *AppStore {
	s := &AppStore{}
	s.restore(defaultAppStoreSnapshot())
	return s
}

func (s *AppStore) snapshot() AppStoreSnapshot {
	return AppStoreSnapshot{Language: s.language, Characters: cloneMap(s.characters)}
}

func (s *AppStore) restore(snap AppStoreSnapshot) {
	s.language = snap.Language
	s.characters = cloneMap(snap.Characters)
}

// Language returns the UI language.
func (s *AppStore) Language() string { return s.language }

// Character implements CharacterLookup.
func (s *AppStore) Character(id string) (Character, bool) {
	c, ok := s.characters[id]
	return c, ok
}

// Characters returns the roster sorted by name, then id.
func (s *AppStore) Characters() []Character {
	out := make([]Character, 0, len(s.characters))
	for _, c := range s.characters {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Character) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SetLanguage changes the UI language.
func (s *AppStore) SetLanguage(lang string) {
	if lang == s.language {
		return
	}
	s.language = lang
	s.tx.emit(patch.Replace(pathLanguage, lang))
}

// AddCharacter stores a character in the roster. A character with the same id
// is replaced.
func (s *AppStore) AddCharacter(c Character) Character {
	c = c.normalized()
	_, exists := s.characters[c.ID]
	s.characters[c.ID] = c
	if exists {
		s.tx.emit(patch.Replace(characterPath(c.ID), c))
	} else {
		s.tx.emit(patch.Add(characterPath(c.ID), c))
	}
	return c
}

// RemoveCharacter drops a character. Games referencing it lose the reference
// before the character leaves the roster.
func (s *AppStore) RemoveCharacter(id string) error {
	if _, ok := s.characters[id]; !ok {
		return ErrCharacterNotFound
	}
	s.tx.Games().ClearCharacter(id)
	delete(s.characters, id)
	s.tx.emit(patch.Remove(characterPath(id)))
	return nil
}
