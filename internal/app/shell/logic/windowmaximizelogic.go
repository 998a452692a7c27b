package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowMaximizeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowMaximizeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowMaximizeLogic {
	return &WindowMaximizeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowMaximizeLogic) WindowMaximize(req *types.WindowIDRequest) (*types.WindowMaximizeResponse, error) {
	v, err := l.svcCtx.Windows.ToggleMaximize(req.WindowID)
	if err != nil {
		return nil, err
	}
	return &types.WindowMaximizeResponse{Maximized: v}, nil
}
