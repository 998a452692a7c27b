package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowCloseLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowCloseLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowCloseLogic {
	return &WindowCloseLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowCloseLogic) WindowClose(req *types.WindowIDRequest) error {
	return l.svcCtx.Windows.Close(req.WindowID)
}
