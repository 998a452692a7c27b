package store

import "errors"

// MaxGames is the number of tabs a window can hold.
const MaxGames = 6

var (
	ErrCapacityExceeded  = errors.New("more than 6 game tabs are not supported")
	ErrGameNotFound      = errors.New("game not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidPatch      = errors.New("invalid patch")
)
