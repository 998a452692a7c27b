package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/store"

	"github.com/zeromicro/go-zero/core/logx"
)

type GamesListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGamesListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GamesListLogic {
	return &GamesListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GamesListLogic) GamesList() (*types.GamesResponse, error) {
	resp := &types.GamesResponse{Games: []types.GameItem{}}
	l.svcCtx.Store.View(func(app *store.AppStore, games *store.GameStore) {
		sel, ok := games.Selected()
		if ok {
			resp.Selected = sel.ID
		}
		resp.IsMuted = games.IsMuted()
		for _, g := range games.Ordered() {
			item := toGameItem(g, app)
			item.Selected = ok && g.ID == sel.ID
			resp.Games = append(resp.Games, item)
		}
	})
	return resp, nil
}

func toGameItem(g store.Game, chars store.CharacterLookup) types.GameItem {
	return types.GameItem{
		ID:              g.ID,
		Character:       g.Character.String(),
		Name:            g.DisplayName(chars),
		HasNotification: g.HasNotification,
	}
}
