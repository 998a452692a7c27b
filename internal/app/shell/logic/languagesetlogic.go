package logic

import (
	"context"
	"slices"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/store"

	"github.com/zeromicro/go-zero/core/logx"
)

type LanguageSetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLanguageSetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LanguageSetLogic {
	return &LanguageSetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *LanguageSetLogic) LanguageSet(req *types.LanguageRequest) error {
	if !slices.Contains(store.LanguageKeys, req.Language) {
		return ErrInvalidRequest
	}
	l.svcCtx.Store.SetLanguage(req.Language)
	return nil
}
