package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type StateSnapshotLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStateSnapshotLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StateSnapshotLogic {
	return &StateSnapshotLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StateSnapshotLogic) StateSnapshot() (*types.SnapshotResponse, error) {
	snap, err := l.svcCtx.Hub.Snapshot()
	if err != nil {
		return nil, err
	}
	return &types.SnapshotResponse{Seq: snap.Seq, State: snap.State}, nil
}
