package logic

import (
	"context"
	"log/slog"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type LogLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLogLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LogLogic {
	return &LogLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Log forwards a renderer log line to the host logger.
func (l *LogLogic) Log(req *types.LogRequest) error {
	if req.Message == "" {
		return ErrInvalidRequest
	}
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(req.Level)); err != nil {
		return ErrInvalidRequest
	}
	args := []any{"source", "renderer"}
	if req.Window > 0 {
		args = append(args, "window", req.Window)
	}
	for k, v := range req.Fields {
		args = append(args, k, v)
	}
	slog.Log(l.ctx, level, req.Message, args...)
	return nil
}
