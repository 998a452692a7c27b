package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Apply applies patches, in order, to a JSON document and returns the result.
// The input document is not modified.
func Apply(doc []byte, patches ...Patch) ([]byte, error) {
	if len(patches) == 0 {
		return doc, nil
	}
	for i, p := range patches {
		if !p.Op.Valid() {
			return nil, fmt.Errorf("patch %d: unsupported op %q", i, p.Op)
		}
	}
	buf, err := json.Marshal(patches)
	if err != nil {
		return nil, fmt.Errorf("encode patches: %w", err)
	}
	ops, err := jsonpatch.DecodePatch(buf)
	if err != nil {
		return nil, fmt.Errorf("decode patches: %w", err)
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("apply patches: %w", err)
	}
	return out, nil
}

// Equal reports whether two JSON documents are structurally equal.
func Equal(a, b []byte) bool { return jsonpatch.Equal(a, b) }
