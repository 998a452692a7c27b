package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type MuteToggleLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMuteToggleLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MuteToggleLogic {
	return &MuteToggleLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MuteToggleLogic) MuteToggle() (*types.MuteResponse, error) {
	return &types.MuteResponse{IsMuted: l.svcCtx.Store.ToggleMute()}, nil
}
