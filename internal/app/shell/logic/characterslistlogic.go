package logic

import (
	"context"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/store"

	"github.com/zeromicro/go-zero/core/logx"
)

type CharactersListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCharactersListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CharactersListLogic {
	return &CharactersListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CharactersListLogic) CharactersList() (*types.CharactersResponse, error) {
	chars := l.svcCtx.Store.Characters()
	resp := &types.CharactersResponse{Characters: make([]types.CharacterItem, 0, len(chars))}
	for _, c := range chars {
		resp.Characters = append(resp.Characters, toCharacterItem(c))
	}
	return resp, nil
}

func toCharacterItem(c store.Character) types.CharacterItem {
	return types.CharacterItem{ID: c.ID, Account: c.Account, Name: c.Name}
}
