package handler

import (
	"net/http"
	"time"

	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/state",
				Handler: StateSnapshotHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/state/patches",
				Handler: StatePatchHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/state/reset",
				Handler: StateResetHandler(serverCtx),
			},
		},
	)

	// websocket streams and context requests that wait for the host
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/state/ws",
				Handler: StateStreamHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/context",
				Handler: ContextHandler(serverCtx),
			},
		},
		rest.WithTimeout(time.Hour),
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/games",
				Handler: GamesListHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games",
				Handler: GameAddHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games/select",
				Handler: GamesSelectHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games/mute",
				Handler: MuteToggleHandler(serverCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/api/v1/games/:game_id",
				Handler: GameDeleteHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games/:game_id/select",
				Handler: GameSelectHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games/:game_id/move",
				Handler: GameMoveHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/games/:game_id/notification",
				Handler: GameNotificationHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/characters",
				Handler: CharactersListHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/characters",
				Handler: CharacterAddHandler(serverCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/api/v1/characters/:character_id",
				Handler: CharacterDeleteHandler(serverCtx),
			},
			{
				Method:  http.MethodPut,
				Path:    "/api/v1/language",
				Handler: LanguageSetHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/windows",
				Handler: WindowsListHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/windows",
				Handler: WindowCreateHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/windows/activate",
				Handler: WindowActivateHandler(serverCtx),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/api/v1/windows/:window_id",
				Handler: WindowCloseHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/windows/:window_id/focus",
				Handler: WindowFocusHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/windows/:window_id/maximize",
				Handler: WindowMaximizeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/windows/:window_id/mute",
				Handler: WindowMuteHandler(serverCtx),
			},
		},
	)

	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/log",
				Handler: LogHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/health",
				Handler: HealthHandler(serverCtx),
			},
		},
	)
}
