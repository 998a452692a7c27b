package types

import (
	"encoding/json"

	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

type SnapshotResponse struct {
	Seq   uint64          `json:"seq"`
	State json.RawMessage `json:"state"`
}

type SendPatchRequest struct {
	Patches []patch.Patch `json:"patches"`
}

type CommitResponse struct {
	Seq     uint64        `json:"seq"`
	Patches []patch.Patch `json:"patches"`
}

type ContextRequest struct {
	Window int `form:"window"`
}

type GameItem struct {
	ID              string `json:"id"`
	Character       string `json:"character,omitempty"`
	Name            string `json:"name"`
	HasNotification bool   `json:"hasNotification"`
	Selected        bool   `json:"selected"`
}

type GamesResponse struct {
	Games    []GameItem `json:"games"`
	Selected string     `json:"selected,omitempty"`
	IsMuted  bool       `json:"isMuted"`
}

type GameAddRequest struct {
	Character string `json:"character,optional"`
}

type GameIDRequest struct {
	GameID string `path:"game_id"`
}

type GameMoveRequest struct {
	GameID string `path:"game_id"`
	Target string `json:"target"`
}

type GameNotificationRequest struct {
	GameID          string `path:"game_id"`
	HasNotification bool   `json:"hasNotification"`
}

// GameSelectRequest selects by Index, or moves with Direction next|previous.
type GameSelectRequest struct {
	Index     *int   `json:"index,optional"`
	Direction string `json:"direction,optional,options=next|previous"`
}

type MuteResponse struct {
	IsMuted bool `json:"isMuted"`
}

type CharacterAddRequest struct {
	ID       string `json:"id,optional"`
	Account  string `json:"account"`
	Password string `json:"password,optional"`
	Name     string `json:"name"`
}

// CharacterItem never carries the password.
type CharacterItem struct {
	ID      string `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
}

type CharacterIDRequest struct {
	CharacterID string `path:"character_id"`
}

type CharactersResponse struct {
	Characters []CharacterItem `json:"characters"`
}

type LanguageRequest struct {
	Language string `json:"language,options=fr|en|es"`
}

type WindowItem struct {
	ID        int    `json:"id"`
	Index     int    `json:"index"`
	URL       string `json:"url"`
	Partition string `json:"partition"`
	Muted     bool   `json:"muted"`
	Maximized bool   `json:"maximized"`
	Minimized bool   `json:"minimized"`
}

type WindowsResponse struct {
	Windows []WindowItem `json:"windows"`
}

type WindowIDRequest struct {
	WindowID int `path:"window_id"`
}

type WindowMuteRequest struct {
	WindowID int  `path:"window_id"`
	Muted    bool `json:"muted"`
}

type WindowMaximizeResponse struct {
	Maximized bool `json:"maximized"`
}

type LogRequest struct {
	Level   string         `json:"level,default=info,options=debug|info|warn|error"`
	Message string         `json:"message"`
	Window  int            `json:"window,optional"`
	Fields  map[string]any `json:"fields,optional"`
}

type HealthResponse struct {
	Status  string           `json:"status"`
	Seq     uint64           `json:"seq"`
	Games   int              `json:"games"`
	Windows int              `json:"windows"`
	Ready   bool             `json:"ready"`
	Sync    statesync.Stats  `json:"sync"`
	Logs    map[string]int64 `json:"logs"`
}
