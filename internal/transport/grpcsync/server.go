// Package grpcsync exposes the patch stream over gRPC for surfaces that do
// not speak websocket. Messages are plain Go structs sent with a JSON codec.
package grpcsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/internal/telemetry"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Server serves a hub.
type Server struct {
	UnimplementedStateSyncServer
	hub     *statesync.Hub
	metrics *telemetry.ShellMetrics
	log     *slog.Logger
}

// NewServer builds a server. metrics may be nil.
func NewServer(hub *statesync.Hub, metrics *telemetry.ShellMetrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{hub: hub, metrics: metrics, log: logger}
}

func (s *Server) Snapshot(_ context.Context, _ *SnapshotRequest) (*SnapshotReply, error) {
	snap, err := s.hub.Snapshot()
	if err != nil {
		return nil, toStatus(err)
	}
	return &SnapshotReply{Snapshot: snap}, nil
}

func (s *Server) SendPatch(ctx context.Context, in *SendPatchRequest) (*SendPatchReply, error) {
	if len(in.Patches) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no patches")
	}
	attrs := metric.WithAttributes(telemetry.TransportKey.String("grpc"))
	c, err := s.hub.Send(in.Patches)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PatchesRejected.Add(ctx, 1, attrs)
		}
		return nil, toStatus(err)
	}
	if s.metrics != nil {
		s.metrics.PatchesApplied.Add(ctx, int64(len(in.Patches)), attrs)
	}
	return &SendPatchReply{Seq: c.Seq}, nil
}

// Subscribe sends the snapshot, then every following commit until the client
// leaves or the subscription is detached.
func (s *Server) Subscribe(_ *SubscribeRequest, stream StateSync_SubscribeServer) error {
	ctx := stream.Context()
	sub, snap, err := s.hub.Attach()
	if err != nil {
		return toStatus(err)
	}
	defer sub.Close()
	if s.metrics != nil {
		attrs := metric.WithAttributes(telemetry.TransportKey.String("grpc"))
		s.metrics.Connections.Add(ctx, 1, attrs)
		defer s.metrics.Connections.Add(context.Background(), -1, attrs)
	}

	if err := stream.Send(&SubscribeEvent{Type: patch.TypeSnapshot, Snapshot: &snap}); err != nil {
		return err
	}
	for {
		c, err := sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Info("surface detached", "subscription", sub.ID(), "transport", "grpc", "reason", err.Error())
			if s.metrics != nil {
				s.metrics.Detached.Add(ctx, 1, metric.WithAttributes(telemetry.ReasonKey.String(err.Error())))
			}
			return toStatus(err)
		}
		if err := stream.Send(&SubscribeEvent{Type: patch.TypePatch, Commit: &c}); err != nil {
			return err
		}
	}
}

// Serve listens on addr until ctx ends.
func (s *Server) Serve(ctx context.Context, addr string, opts ...grpc.ServerOption) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := grpc.NewServer(opts...)
	RegisterStateSyncServer(gs, s)
	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()
	s.log.Info("state sync gRPC listening", "addr", lis.Addr().String())
	return gs.Serve(lis)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidPatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, statesync.ErrSlowConsumer), errors.Is(err, statesync.ErrOutOfOrder):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, statesync.ErrDetached):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
