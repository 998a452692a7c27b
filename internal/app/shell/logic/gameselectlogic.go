package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameSelectLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameSelectLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameSelectLogic {
	return &GameSelectLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameSelectLogic) GameSelect(req *types.GameIDRequest) error {
	return l.svcCtx.Store.SelectGame(req.GameID)
}
