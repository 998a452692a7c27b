package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowActivateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowActivateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowActivateLogic {
	return &WindowActivateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// WindowActivate handles a second launch of the shell: the primary window is
// restored and focused, or a window is opened when none is left.
func (l *WindowActivateLogic) WindowActivate() (*types.WindowItem, error) {
	w, err := l.svcCtx.Windows.Activate(l.svcCtx.RendererURL())
	if err != nil {
		return nil, err
	}
	item := toWindowItem(w)
	return &item, nil
}
