package store

import (
	"bytes"
	"encoding/json"
)

// Ref is a weak reference by id. The zero value is an unset reference and is
// encoded as JSON null. A Ref never keeps its target alive: resolving it
// against the owning collection may miss, which reads as "reference cleared".
type Ref string

// IsSet reports whether the reference points at anything.
func (r Ref) IsSet() bool { return r != "" }

// String returns the referenced id, or "" when unset.
func (r Ref) String() string { return string(r) }

func (r Ref) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Ref(s)
	return nil
}
