package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameMoveLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameMoveLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameMoveLogic {
	return &GameMoveLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameMoveLogic) GameMove(req *types.GameMoveRequest) error {
	if req.Target == "" {
		return ErrInvalidRequest
	}
	return l.svcCtx.Store.MoveGame(req.GameID, req.Target)
}
