package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowMuteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowMuteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowMuteLogic {
	return &WindowMuteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowMuteLogic) WindowMute(req *types.WindowMuteRequest) error {
	return l.svcCtx.Windows.SetAudioMute(req.WindowID, req.Muted)
}
