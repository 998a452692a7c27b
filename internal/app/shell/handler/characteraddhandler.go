package handler

import (
	"net/http"

	"github.com/payb0y/lindo-clean/internal/app/shell/logic"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func CharacterAddHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CharacterAddRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewCharacterAddLogic(r.Context(), svcCtx)
		resp, err := l.CharacterAdd(&req)
		if err != nil {
			writeShellError(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
