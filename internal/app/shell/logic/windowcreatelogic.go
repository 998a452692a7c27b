package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowCreateLogic {
	return &WindowCreateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowCreateLogic) WindowCreate() (*types.WindowItem, error) {
	w, err := l.svcCtx.Windows.Create(l.svcCtx.RendererURL())
	if err != nil {
		return nil, err
	}
	item := toWindowItem(w)
	return &item, nil
}
