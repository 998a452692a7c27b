package handler

import (
	"net/http"

	"github.com/payb0y/lindo-clean/internal/app/shell/logic"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func CharactersListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewCharactersListLogic(r.Context(), svcCtx)
		resp, err := l.CharactersList()
		if err != nil {
			writeShellError(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
