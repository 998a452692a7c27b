// Package assets serves the game, renderer, character image and changelog
// files to render surfaces and reports when the served files change.
package assets

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
)

// Config locates the served files.
type Config struct {
	GameDir            string `json:",default=data/game"`
	RendererDir        string `json:",default=renderer"`
	CharacterImagesDir string `json:",default=data/character-images"`
	ChangelogFile      string `json:",default=CHANGELOG.md"`
	Watch              bool   `json:",default=true"`
	DebounceMillis     int    `json:",default=300"`
}

// Mount registers the static routes on mux. Every response allows any origin.
func Mount(mux *http.ServeMux, c Config) {
	mux.Handle("/game/", cors(http.StripPrefix("/game/", http.FileServer(http.Dir(c.GameDir)))))
	mux.Handle("/renderer/", cors(http.StripPrefix("/renderer/", http.FileServer(http.Dir(c.RendererDir)))))
	mux.Handle("/character-images/", cors(http.StripPrefix("/character-images/", http.FileServer(http.Dir(c.CharacterImagesDir)))))
	mux.Handle("/changelog", cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		http.ServeFile(w, r, c.ChangelogFile)
	})))
}

// Handler returns a mux serving only the static routes.
func Handler(c Config) http.Handler {
	mux := http.NewServeMux()
	Mount(mux, c)
	return mux
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FindPort returns the first port from start on that host can listen on.
func FindPort(host string, start int) (int, error) {
	if start <= 0 {
		start = 3000
	}
	for port := start; port < start+100 && port <= 65535; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no free port in [%d, %d)", start, start+100)
}
