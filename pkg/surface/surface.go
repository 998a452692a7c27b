// Package surface is the render-surface side of the patch stream: it connects
// to the shell host, keeps a replica of the state tree and sends patches back.
package surface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

// ErrRejected wraps error frames the host sent back.
var ErrRejected = errors.New("surface: host rejected request")

// Options configures a Client.
type Options struct {
	// OnChange is called after the snapshot and after every applied commit.
	OnChange func(doc []byte, seq uint64)
	// OnAssetsChanged is called for asset change notices.
	OnAssetsChanged func(patch.AssetsChanged)
	// OnError is called for error frames. Detach reasons are reported by Done.
	OnError      func(patch.ErrorPayload)
	WriteTimeout time.Duration
	Logger       *slog.Logger
	Header       http.Header
}

// Client is one attached render surface.
type Client struct {
	conn    *websocket.Conn
	replica *statesync.Replica
	opts    Options

	writeMu sync.Mutex
	done    chan struct{}
}

// Dial connects to the host state stream. hostURL is the host base URL such
// as http://127.0.0.1:3000. Dial returns once the snapshot is applied.
func Dial(ctx context.Context, hostURL string, opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL(hostURL), opts.Header)
	if err != nil {
		return nil, fmt.Errorf("surface: dial: %w", err)
	}
	c := &Client{conn: conn, replica: statesync.NewReplica(opts.OnChange), opts: opts, done: make(chan struct{})}
	if err := c.replica.RequestSnapshot(); err != nil {
		conn.Close()
		return nil, err
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("surface: read snapshot: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	env, err := patch.Decode(data)
	if err != nil || env.Type != patch.TypeSnapshot {
		conn.Close()
		return nil, fmt.Errorf("surface: expected snapshot frame, got %q: %v", env.Type, err)
	}
	var snap patch.Snapshot
	if err := json.Unmarshal(env.Payload, &snap); err != nil {
		conn.Close()
		return nil, fmt.Errorf("surface: decode snapshot: %w", err)
	}
	if err := c.replica.ApplySnapshot(snap); err != nil {
		conn.Close()
		return nil, err
	}
	go c.readLoop()
	return c, nil
}

func streamURL(host string) string {
	host = strings.TrimRight(host, "/")
	switch {
	case strings.HasPrefix(host, "https://"):
		host = "wss://" + strings.TrimPrefix(host, "https://")
	case strings.HasPrefix(host, "http://"):
		host = "ws://" + strings.TrimPrefix(host, "http://")
	}
	return host + "/api/v1/state/ws"
}

func (c *Client) readLoop() {
	defer close(c.done)
	defer c.conn.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.replica.Detach(fmt.Errorf("%w: %v", statesync.ErrDetached, err))
			return
		}
		env, err := patch.Decode(data)
		if err != nil {
			c.opts.Logger.Warn("surface: bad frame", "err", err)
			continue
		}
		switch env.Type {
		case patch.TypePatch:
			var commit patch.Commit
			if err := json.Unmarshal(env.Payload, &commit); err != nil {
				c.replica.Detach(fmt.Errorf("decode commit: %w", err))
				return
			}
			if err := c.replica.ApplyCommit(commit); err != nil {
				c.opts.Logger.Info("surface detached", "err", err)
				return
			}
		case patch.TypeAssetsChanged:
			var n patch.AssetsChanged
			if json.Unmarshal(env.Payload, &n) == nil && c.opts.OnAssetsChanged != nil {
				c.opts.OnAssetsChanged(n)
			}
		case patch.TypeError:
			var e patch.ErrorPayload
			_ = json.Unmarshal(env.Payload, &e)
			if e.Code == "detached" {
				c.replica.Detach(fmt.Errorf("%w: %s", statesync.ErrDetached, e.Message))
				return
			}
			if c.opts.OnError != nil {
				c.opts.OnError(e)
			}
		}
	}
}

// SendPatch sends patches to the host. Accepted patches come back as a
// commit like any other; rejections arrive as error frames.
func (c *Client) SendPatch(ps ...patch.Patch) error {
	return c.send(patch.TypePatch, struct {
		Patches []patch.Patch `json:"patches"`
	}{ps})
}

// Reset asks the host to restore the default tree.
func (c *Client) Reset() error { return c.send(patch.TypeReset, nil) }

func (c *Client) send(typ string, payload any) error {
	frame, err := patch.Encode(typ, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Document returns the current replica tree.
func (c *Client) Document() []byte { return c.replica.Document() }

// Seq returns the seq of the last applied commit.
func (c *Client) Seq() uint64 { return c.replica.Seq() }

// Phase returns the replica phase.
func (c *Client) Phase() statesync.Phase { return c.replica.Phase() }

// Done is closed once the client stops following the host. Err then tells
// why.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the detach reason.
func (c *Client) Err() error { return c.replica.Err() }

// Close detaches from the host.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}
