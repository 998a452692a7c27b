package patchlog

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

func TestRedactMasksPasswords(t *testing.T) {
	c := patch.Commit{Seq: 4, Patches: []patch.Patch{
		patch.Add("/appStore/characters/c1", map[string]string{"id": "c1", "account": "acc", "password": "hunter2", "name": "Iop"}),
		patch.Replace("/appStore/characters/c1/password", "hunter3"),
		patch.Replace("/appStore", map[string]any{"language": "fr", "characters": map[string]any{
			"c2": map[string]string{"id": "c2", "password": "pw"},
		}}),
		patch.Remove("/gameStore/games/g1"),
		patch.Replace("/gameStore/isMuted", true),
	}}
	out := Redact(c)
	for i, p := range out.Patches {
		if strings.Contains(string(p.Value), "hunter") || strings.Contains(string(p.Value), `"pw"`) {
			t.Fatalf("patch %d leaks a password: %s", i, p.Value)
		}
	}
	if !strings.Contains(string(c.Patches[0].Value), "hunter2") {
		t.Fatalf("input commit was modified")
	}
	var ch map[string]string
	if err := json.Unmarshal(out.Patches[0].Value, &ch); err != nil {
		t.Fatal(err)
	}
	if ch["account"] != "acc" || ch["password"] != redacted {
		t.Fatalf("character %v", ch)
	}
	if string(out.Patches[4].Value) != "true" || out.Patches[3].Value != nil {
		t.Fatalf("unrelated patches changed: %+v", out.Patches[3:])
	}
}

func TestNewSelectsSink(t *testing.T) {
	s, err := New(Config{Type: "noop"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Mirror(context.Background(), patch.Commit{Seq: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{Type: "carrier-pigeon"}); err == nil {
		t.Fatalf("unknown type should fail")
	}
	if _, err := New(Config{Type: "redis", URL: "not a url"}); err == nil {
		t.Fatalf("bad redis url should fail")
	}
	k, err := New(Config{Type: "kafka", Brokers: "127.0.0.1:9092"})
	if err != nil {
		t.Fatal(err)
	}
	_ = k.Close()
}
