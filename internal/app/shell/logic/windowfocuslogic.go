package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowFocusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowFocusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowFocusLogic {
	return &WindowFocusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowFocusLogic) WindowFocus(req *types.WindowIDRequest) error {
	return l.svcCtx.Windows.Focus(req.WindowID)
}
