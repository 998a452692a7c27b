package logic

import (
	"context"
	"strings"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameAddLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameAddLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameAddLogic {
	return &GameAddLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameAddLogic) GameAdd(req *types.GameAddRequest) (*types.GameItem, error) {
	g, err := l.svcCtx.Store.AddGame(strings.TrimSpace(req.Character))
	if err != nil {
		return nil, err
	}
	item := toGameItem(g, l.svcCtx.Store)
	item.Selected = true
	return &item, nil
}
