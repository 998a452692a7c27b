package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GameNotificationLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGameNotificationLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GameNotificationLogic {
	return &GameNotificationLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GameNotificationLogic) GameNotification(req *types.GameNotificationRequest) error {
	return l.svcCtx.Store.SetHasNotification(req.GameID, req.HasNotification)
}
