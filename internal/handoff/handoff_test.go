package handoff

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHashOfAppNameWhenNotPackaged(t *testing.T) {
	p, err := New(Options{AppName: "Lindo"})
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256([]byte("Lindo"))
	if p.Hash() != hex.EncodeToString(sum[:]) {
		t.Fatalf("hash %s", p.Hash())
	}
}

func TestHashOfExecutableWhenPackaged(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "lindo")
	if err := os.WriteFile(exe, []byte("binary"), 0o755); err != nil {
		t.Fatal(err)
	}
	p, err := New(Options{AppName: "Lindo", Packaged: true, Executable: exe})
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256([]byte("binary"))
	if p.Hash() != hex.EncodeToString(sum[:]) {
		t.Fatalf("hash %s", p.Hash())
	}
}

func TestContextWaitsForReady(t *testing.T) {
	p, _ := New(Options{AppName: "Lindo", Platform: "linux"})
	got := make(chan Record, 1)
	go func() {
		rec, err := p.Context(context.Background(), 7)
		if err == nil {
			got <- rec
		}
	}()
	select {
	case <-got:
		t.Fatalf("context returned before ready")
	case <-time.After(20 * time.Millisecond):
	}
	p.Ready("http://localhost:3000/")
	select {
	case rec := <-got:
		if rec.GameSrc != "http://localhost:3000/game/index.html?delayed=true" || rec.WindowID != 7 || rec.Platform != "linux" {
			t.Fatalf("record %+v", rec)
		}
		if rec.ChangeLogSrc != "http://localhost:3000/changelog" || rec.CharacterImagesSrc != "http://localhost:3000/character-images/" {
			t.Fatalf("record %+v", rec)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("context did not resolve after ready")
	}
}

func TestContextHonorsCancellation(t *testing.T) {
	p, _ := New(Options{AppName: "Lindo"})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Context(ctx, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if p.IsReady() {
		t.Fatalf("provider should not be ready")
	}
}
