package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/cli/common"

	"github.com/zeromicro/go-zero/core/logx"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthLogic) Health() (*types.HealthResponse, error) {
	return &types.HealthResponse{
		Status:  "ok",
		Seq:     l.svcCtx.Store.Seq(),
		Games:   len(l.svcCtx.Store.Games()),
		Windows: len(l.svcCtx.Windows.List()),
		Ready:   l.svcCtx.Handoff.IsReady(),
		Sync:    l.svcCtx.Hub.Stats(),
		Logs:    common.GetLogCounters(),
	}, nil
}
