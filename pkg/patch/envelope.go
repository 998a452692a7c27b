package patch

import (
	"encoding/json"
	"fmt"
)

// Envelope types carried over the surface transports.
const (
	TypeSnapshot      = "snapshot"
	TypePatch         = "patch"
	TypeReset         = "reset"
	TypeError         = "error"
	TypeAssetsChanged = "assets.changed"
)

// Envelope is the frame exchanged over websocket connections.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Snapshot is a full serialized state tree together with the seq of the last
// commit it includes.
type Snapshot struct {
	Seq   uint64          `json:"seq"`
	State json.RawMessage `json:"state"`
}

// ErrorPayload reports a rejected surface request.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AssetsChanged tells surfaces that served files changed on disk.
type AssetsChanged struct {
	Root  string   `json:"root"`
	Paths []string `json:"paths"`
}

// Encode wraps payload in an envelope of the given type.
func Encode(typ string, payload any) ([]byte, error) {
	var body json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", typ, err)
		}
		body = b
	}
	return json.Marshal(Envelope{Type: typ, Payload: body})
}

// Decode parses an envelope. The payload is left raw.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}
