package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/telemetry"

	"github.com/zeromicro/go-zero/core/logx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type StatePatchLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStatePatchLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StatePatchLogic {
	return &StatePatchLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StatePatchLogic) StatePatch(req *types.SendPatchRequest, transport string) (*types.CommitResponse, error) {
	if len(req.Patches) == 0 {
		return nil, ErrInvalidRequest
	}
	ctx, span := telemetry.StartSpan(l.ctx, "state.patch",
		telemetry.TransportKey.String(transport), attribute.Int("lindo.patches", len(req.Patches)))
	defer span.End()

	attrs := metric.WithAttributes(telemetry.TransportKey.String(transport))
	c, err := l.svcCtx.Hub.Send(req.Patches)
	if err != nil {
		span.RecordError(err)
		l.svcCtx.Metrics.PatchesRejected.Add(ctx, 1, attrs)
		l.Infof("rejected %d patches from %s: %v", len(req.Patches), transport, err)
		return nil, err
	}
	l.svcCtx.Metrics.PatchesApplied.Add(ctx, int64(len(req.Patches)), attrs)
	return &types.CommitResponse{Seq: c.Seq, Patches: c.Patches}, nil
}
