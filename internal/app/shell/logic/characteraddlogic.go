package logic

import (
	"context"
	"strings"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/store"

	"github.com/zeromicro/go-zero/core/logx"
)

type CharacterAddLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCharacterAddLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CharacterAddLogic {
	return &CharacterAddLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CharacterAddLogic) CharacterAdd(req *types.CharacterAddRequest) (*types.CharacterItem, error) {
	if strings.TrimSpace(req.Account) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidRequest
	}
	c := l.svcCtx.Store.AddCharacter(store.Character{
		ID:       req.ID,
		Account:  req.Account,
		Password: req.Password,
		Name:     req.Name,
	})
	item := toCharacterItem(c)
	return &item, nil
}
