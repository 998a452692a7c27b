package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type StateResetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStateResetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StateResetLogic {
	return &StateResetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StateResetLogic) StateReset() (*types.CommitResponse, error) {
	c, err := l.svcCtx.Hub.Reset()
	if err != nil {
		return nil, err
	}
	l.Infof("state reset at seq %d", c.Seq)
	return &types.CommitResponse{Seq: c.Seq, Patches: c.Patches}, nil
}
