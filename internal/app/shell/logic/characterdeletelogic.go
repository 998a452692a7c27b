package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type CharacterDeleteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCharacterDeleteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CharacterDeleteLogic {
	return &CharacterDeleteLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CharacterDeleteLogic) CharacterDelete(req *types.CharacterIDRequest) error {
	return l.svcCtx.Store.RemoveCharacter(req.CharacterID)
}
