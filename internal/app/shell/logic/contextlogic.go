package logic

import (
	"context"
	"time"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/handoff"

	"github.com/zeromicro/go-zero/core/logx"
)

type ContextLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewContextLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ContextLogic {
	return &ContextLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Context waits until the host is ready, so the request may block until the
// asset server is up or the client gives up.
func (l *ContextLogic) Context(req *types.ContextRequest) (*handoff.Record, error) {
	start := time.Now()
	rec, err := l.svcCtx.Handoff.Context(l.ctx, req.Window)
	l.svcCtx.Metrics.ContextWait.Record(l.ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
