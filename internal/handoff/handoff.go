// Package handoff hands every render surface the runtime context it needs to
// load the game: asset URLs, its window id and the install hash.
package handoff

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Record is the game context of one window.
type Record struct {
	GameSrc            string `json:"gameSrc"`
	CharacterImagesSrc string `json:"characterImagesSrc"`
	ChangeLogSrc       string `json:"changeLogSrc"`
	WindowID           int    `json:"windowId"`
	Hash               string `json:"hash"`
	Platform           string `json:"platform"`
}

// Options configures a Provider.
type Options struct {
	AppName  string
	Packaged bool
	// Executable overrides the binary hashed when Packaged is set.
	Executable string
	Platform   string
}

// Provider answers context requests. Requests arriving before Ready wait for
// it instead of failing.
type Provider struct {
	hash     string
	platform string

	mu      sync.RWMutex
	baseURL string
	ready   chan struct{}
	once    sync.Once
}

// New computes the install hash and returns a provider that is not ready yet.
func New(o Options) (*Provider, error) {
	hash, err := computeHash(o)
	if err != nil {
		return nil, err
	}
	platform := o.Platform
	if platform == "" {
		platform = Platform()
	}
	return &Provider{hash: hash, platform: platform, ready: make(chan struct{})}, nil
}

func computeHash(o Options) (string, error) {
	h := sha256.New()
	if !o.Packaged {
		h.Write([]byte(o.AppName))
		return hex.EncodeToString(h.Sum(nil)), nil
	}
	exe := o.Executable
	if exe == "" {
		p, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate executable: %w", err)
		}
		exe = p
	}
	f, err := os.Open(exe)
	if err != nil {
		return "", fmt.Errorf("hash executable: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash executable: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Hash is the install hash, stable for the process lifetime.
func (p *Provider) Hash() string { return p.hash }

// Ready publishes the asset server base URL and releases waiting requests.
// Later calls only update the URL.
func (p *Provider) Ready(baseURL string) {
	p.mu.Lock()
	p.baseURL = strings.TrimRight(baseURL, "/")
	p.mu.Unlock()
	p.once.Do(func() { close(p.ready) })
}

// IsReady reports whether Ready was called.
func (p *Provider) IsReady() bool {
	select {
	case <-p.ready:
		return true
	default:
		return false
	}
}

// Context returns the record of windowID, waiting for Ready if needed. It
// only fails when ctx ends first.
func (p *Provider) Context(ctx context.Context, windowID int) (Record, error) {
	select {
	case <-p.ready:
	case <-ctx.Done():
		return Record{}, ctx.Err()
	}
	p.mu.RLock()
	base := p.baseURL
	p.mu.RUnlock()
	return Record{
		GameSrc:            base + "/game/index.html?delayed=true",
		CharacterImagesSrc: base + "/character-images/",
		ChangeLogSrc:       base + "/changelog",
		WindowID:           windowID,
		Hash:               p.hash,
		Platform:           p.platform,
	}, nil
}

// Platform names the host OS the way the renderer expects it.
func Platform() string {
	if runtime.GOOS == "windows" {
		return "win32"
	}
	return runtime.GOOS
}
