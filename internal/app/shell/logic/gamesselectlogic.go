package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GamesSelectLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGamesSelectLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GamesSelectLogic {
	return &GamesSelectLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// GamesSelect selects by index or steps through the tabs. Exactly one of
// index and direction must be set.
func (l *GamesSelectLogic) GamesSelect(req *types.GameSelectRequest) error {
	switch {
	case req.Index != nil && req.Direction != "":
		return ErrInvalidRequest
	case req.Index != nil:
		return l.svcCtx.Store.SelectGameIndex(*req.Index)
	case req.Direction == "next":
		l.svcCtx.Store.SelectNextGame()
	case req.Direction == "previous":
		l.svcCtx.Store.SelectPreviousGame()
	default:
		return ErrInvalidRequest
	}
	return nil
}
