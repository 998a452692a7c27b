package settings

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

// AppSource exposes the current app store.
type AppSource interface {
	State() store.State
}

// Persister saves the app store whenever a commit touches it. It is a commit
// sink, so saves run outside the store lock.
type Persister struct {
	repo *Repo
	src  AppSource
}

func NewPersister(repo *Repo, src AppSource) *Persister {
	return &Persister{repo: repo, src: src}
}

func (p *Persister) Mirror(ctx context.Context, c patch.Commit) error {
	if !c.Touches("/appStore") {
		return nil
	}
	app := p.src.State().AppStore
	if isReset(c) && app.Language == "" && len(app.Characters) == 0 {
		return p.repo.Wipe(ctx)
	}
	return p.repo.SaveApp(ctx, app)
}

func isReset(c patch.Commit) bool {
	for _, p := range c.Patches {
		if p.Op == patch.OpReplace && p.Path == "/appStore" {
			return true
		}
	}
	return false
}

func (p *Persister) Close() error { return p.repo.Close() }
