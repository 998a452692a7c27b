// Package patch defines the structural deltas exchanged between the host and
// render surfaces. Paths are RFC 6901 JSON pointers into the state snapshot and
// operations follow RFC 6902 semantics.
package patch

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Op is a patch operation.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
)

// Valid reports whether the op is one the store emits and accepts.
func (o Op) Valid() bool {
	switch o {
	case OpAdd, OpRemove, OpReplace:
		return true
	}
	return false
}

// Patch is a single structural delta.
type Patch struct {
	Op    Op              `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Add builds an add patch. A nil value is encoded as JSON null.
func Add(path string, v any) Patch { return Patch{Op: OpAdd, Path: path, Value: raw(v)} }

// Replace builds a replace patch. A nil value is encoded as JSON null.
func Replace(path string, v any) Patch { return Patch{Op: OpReplace, Path: path, Value: raw(v)} }

// Remove builds a remove patch.
func Remove(path string) Patch { return Patch{Op: OpRemove, Path: path} }

func raw(v any) json.RawMessage {
	if r, ok := v.(json.RawMessage); ok {
		return r
	}
	b, err := json.Marshal(v)
	if err != nil {
		// store values are plain structs, strings and bools
		return json.RawMessage("null")
	}
	return b
}

// Commit groups the patches produced by one store mutation. Seq increases by
// one for every commit the host emits.
type Commit struct {
	Seq     uint64  `json:"seq"`
	Patches []Patch `json:"patches"`
}

// Touches reports whether any patch of the commit addresses prefix or a path below it.
func (c Commit) Touches(prefix string) bool {
	for _, p := range c.Patches {
		if p.Path == prefix || strings.HasPrefix(p.Path, prefix+"/") {
			return true
		}
		// a replace of an ancestor also rewrites prefix
		if p.Path == "" || strings.HasPrefix(prefix, p.Path+"/") {
			return true
		}
	}
	return false
}

// Pointer joins reference tokens into a JSON pointer, escaping each token.
func Pointer(tokens ...string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(t))
	}
	return b.String()
}

// Index renders an array index token.
func Index(i int) string { return strconv.Itoa(i) }

// EscapeToken escapes '~' and '/' per RFC 6901.
func EscapeToken(t string) string {
	if !strings.ContainsAny(t, "~/") {
		return t
	}
	t = strings.ReplaceAll(t, "~", "~0")
	return strings.ReplaceAll(t, "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(t string) string {
	if !strings.Contains(t, "~") {
		return t
	}
	t = strings.ReplaceAll(t, "~1", "/")
	return strings.ReplaceAll(t, "~0", "~")
}

// Split returns the unescaped reference tokens of a pointer. The root pointer
// "" yields no tokens.
func Split(pointer string) []string {
	if pointer == "" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		parts[i] = UnescapeToken(p)
	}
	return parts
}
