package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/window"

	"github.com/zeromicro/go-zero/core/logx"
)

type WindowsListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWindowsListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WindowsListLogic {
	return &WindowsListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *WindowsListLogic) WindowsList() (*types.WindowsResponse, error) {
	ws := l.svcCtx.Windows.List()
	resp := &types.WindowsResponse{Windows: make([]types.WindowItem, 0, len(ws))}
	for _, w := range ws {
		resp.Windows = append(resp.Windows, toWindowItem(w))
	}
	return resp, nil
}

func toWindowItem(w window.Window) types.WindowItem {
	return types.WindowItem{
		ID:        w.ID,
		Index:     w.Index,
		URL:       w.URL,
		Partition: w.Partition,
		Muted:     w.Muted,
		Maximized: w.Maximized,
		Minimized: w.Minimized,
	}
}
