// Package patchlog mirrors state commits to an external log so other tools
// can follow the shell state. Credentials are redacted before anything leaves
// the process.
package patchlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Sink receives every commit in order.
type Sink interface {
	Mirror(ctx context.Context, c patch.Commit) error
	Close() error
}

// Config selects and configures the sink.
type Config struct {
	Type    string `json:",default=noop,options=noop|redis|kafka"`
	URL     string `json:",optional"`
	Stream  string `json:",default=lindo:patches"`
	MaxLen  int64  `json:",default=100000"`
	Brokers string `json:",optional"`
	Topic   string `json:",default=lindo.patches"`
}

// New builds the sink described by c.
func New(c Config) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case "", "noop":
		return NewNoop(), nil
	case "redis":
		url := c.URL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		return NewRedis(url, c.Stream, c.MaxLen)
	case "kafka":
		bs := c.Brokers
		if bs == "" {
			bs = "localhost:9092"
		}
		slog.Info("patch log kafka mirror enabled", "brokers", bs, "topic", c.Topic)
		return NewKafka(strings.Split(bs, ","), c.Topic), nil
	default:
		return nil, fmt.Errorf("unsupported patch log type %q", c.Type)
	}
}

// record is the mirrored form of a commit.
type record struct {
	Seq     uint64        `json:"seq"`
	Patches []patch.Patch `json:"patches"`
	At      int64         `json:"at"`
}

func encode(c patch.Commit) ([]byte, error) {
	return json.Marshal(record{Seq: c.Seq, Patches: Redact(c).Patches, At: time.Now().UnixMilli()})
}

const redacted = "***"

// Redact returns a copy of c where every character password is masked.
func Redact(c patch.Commit) patch.Commit {
	out := patch.Commit{Seq: c.Seq, Patches: make([]patch.Patch, len(c.Patches))}
	for i, p := range c.Patches {
		out.Patches[i] = redactPatch(p)
	}
	return out
}

func redactPatch(p patch.Patch) patch.Patch {
	if len(p.Value) == 0 {
		return p
	}
	tokens := patch.Split(p.Path)
	if len(tokens) > 0 && tokens[len(tokens)-1] == "password" {
		p.Value = json.RawMessage(`"` + redacted + `"`)
		return p
	}
	var v any
	if err := json.Unmarshal(p.Value, &v); err != nil {
		return p
	}
	if !mask(v) {
		return p
	}
	b, err := json.Marshal(v)
	if err != nil {
		return p
	}
	p.Value = b
	return p
}

// mask replaces password fields in place and reports whether it changed v.
func mask(v any) bool {
	changed := false
	switch t := v.(type) {
	case map[string]any:
		for k, x := range t {
			if k == "password" {
				if s, ok := x.(string); ok && s != "" {
					t[k] = redacted
					changed = true
				}
				continue
			}
			if mask(x) {
				changed = true
			}
		}
	case []any:
		for _, x := range t {
			if mask(x) {
				changed = true
			}
		}
	}
	return changed
}
