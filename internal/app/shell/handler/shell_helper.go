package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/payb0y/lindo-clean/internal/app/shell/logic"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/internal/window"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func writeShellError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrCapacityExceeded) && !errors.Is(err, store.ErrInvalidPatch):
		httpx.WriteJsonCtx(ctx, w, http.StatusConflict, map[string]any{"message": err.Error()})
	case errors.Is(err, store.ErrGameNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "game not found"})
	case errors.Is(err, store.ErrCharacterNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "character not found"})
	case errors.Is(err, window.ErrWindowNotFound):
		httpx.WriteJsonCtx(ctx, w, http.StatusNotFound, map[string]any{"message": "window not found"})
	case errors.Is(err, store.ErrInvalidPatch):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": err.Error()})
	case errors.Is(err, logic.ErrInvalidRequest):
		httpx.WriteJsonCtx(ctx, w, http.StatusBadRequest, map[string]any{"message": "invalid request"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpx.WriteJsonCtx(ctx, w, http.StatusServiceUnavailable, map[string]any{"message": "host not ready"})
	default:
		httpx.ErrorCtx(ctx, w, err)
	}
}
