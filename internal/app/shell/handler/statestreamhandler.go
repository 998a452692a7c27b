package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
	"go.opentelemetry.io/otel/metric"

	"github.com/payb0y/lindo-clean/internal/app/shell/logic"
	"github.com/payb0y/lindo-clean/internal/app/shell/svc"
	"github.com/payb0y/lindo-clean/internal/app/shell/types"
	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/internal/telemetry"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

var upgrader = websocket.Upgrader{
	// surfaces load from the local asset server on a free port
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// StateStreamHandler upgrades to a websocket, sends the snapshot frame and
// then every commit as a patch frame. Patch and reset frames from the surface
// go through the store like their HTTP counterparts.
func StateStreamHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.WithContext(r.Context()).Errorf("state stream upgrade: %v", err)
			return
		}
		newStream(svcCtx, conn).serve()
	}
}

type stream struct {
	svcCtx *svc.ServiceContext
	conn   *websocket.Conn
	log    logx.Logger
	out    chan []byte

	writeTimeout time.Duration
	pingInterval time.Duration
}

func newStream(svcCtx *svc.ServiceContext, conn *websocket.Conn) *stream {
	wt := time.Duration(svcCtx.Config.Sync.WriteTimeoutMillis) * time.Millisecond
	if wt <= 0 {
		wt = 5 * time.Second
	}
	pi := time.Duration(svcCtx.Config.Sync.PingIntervalMillis) * time.Millisecond
	if pi <= 0 {
		pi = 30 * time.Second
	}
	return &stream{
		svcCtx:       svcCtx,
		conn:         conn,
		log:          logx.WithContext(context.Background()),
		out:          make(chan []byte, 16),
		writeTimeout: wt,
		pingInterval: pi,
	}
}

func (s *stream) serve() {
	defer s.conn.Close()
	m := s.svcCtx.Metrics
	transport := metric.WithAttributes(telemetry.TransportKey.String("ws"))
	m.Connections.Add(context.Background(), 1, transport)
	defer m.Connections.Add(context.Background(), -1, transport)

	sub, snap, err := s.svcCtx.Hub.Attach()
	if err != nil {
		s.log.Errorf("state stream attach: %v", err)
		return
	}
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.write(patch.TypeSnapshot, snap); err != nil {
		return
	}
	notices, stopNotices := s.svcCtx.Assets.Subscribe()
	defer stopNotices()

	go s.read(ctx, cancel)

	commits := make(chan patch.Commit)
	detached := make(chan error, 1)
	go func() {
		for {
			c, err := sub.Next(ctx)
			if err != nil {
				detached <- err
				return
			}
			select {
			case commits <- c:
			case <-ctx.Done():
				detached <- ctx.Err()
				return
			}
		}
	}()

	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()
	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case c := <-commits:
			err = s.write(patch.TypePatch, c)
		case frame := <-s.out:
			err = s.writeRaw(frame)
		case n, ok := <-notices:
			if !ok {
				notices = nil
				continue
			}
			err = s.write(patch.TypeAssetsChanged, n)
		case reason := <-detached:
			if errors.Is(reason, context.Canceled) {
				return
			}
			s.log.Infof("surface %d detached: %v", sub.ID(), reason)
			m.Detached.Add(context.Background(), 1, metric.WithAttributes(telemetry.ReasonKey.String(reason.Error())))
			_ = s.write(patch.TypeError, patch.ErrorPayload{Code: "detached", Message: reason.Error()})
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "detached"), time.Now().Add(s.writeTimeout))
			return
		case <-ping.C:
			err = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout))
		}
		if err != nil {
			s.log.Infof("surface %d write: %v", sub.ID(), err)
			return
		}
	}
}

func (s *stream) read(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := patch.Decode(data)
		if err != nil {
			s.reply(ctx, "bad_frame", err)
			continue
		}
		switch env.Type {
		case patch.TypePatch:
			var req types.SendPatchRequest
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				s.reply(ctx, "bad_frame", err)
				continue
			}
			l := logic.NewStatePatchLogic(ctx, s.svcCtx)
			if _, err := l.StatePatch(&req, "ws"); err != nil {
				s.reply(ctx, errorCode(err), err)
			}
		case patch.TypeReset:
			if _, err := logic.NewStateResetLogic(ctx, s.svcCtx).StateReset(); err != nil {
				s.reply(ctx, errorCode(err), err)
			}
		default:
			s.reply(ctx, "bad_frame", errors.New("unsupported frame type "+env.Type))
		}
	}
}

// reply queues an error frame for the writer.
func (s *stream) reply(ctx context.Context, code string, err error) {
	frame, encErr := patch.Encode(patch.TypeError, patch.ErrorPayload{Code: code, Message: err.Error()})
	if encErr != nil {
		return
	}
	select {
	case s.out <- frame:
	case <-ctx.Done():
	}
}

func (s *stream) write(typ string, payload any) error {
	frame, err := patch.Encode(typ, payload)
	if err != nil {
		return err
	}
	return s.writeRaw(frame)
}

func (s *stream) writeRaw(frame []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidPatch):
		return "invalid_patch"
	case errors.Is(err, logic.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, statesync.ErrDetached):
		return "detached"
	default:
		return "internal"
	}
}
