package grpcsync

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

const serviceName = "lindo.shell.v1.StateSync"

type SnapshotRequest struct{}

type SnapshotReply struct {
	Snapshot patch.Snapshot `json:"snapshot"`
}

type SubscribeRequest struct{}

// SubscribeEvent carries the snapshot first, then one commit per event.
type SubscribeEvent struct {
	Type     string          `json:"type"`
	Snapshot *patch.Snapshot `json:"snapshot,omitempty"`
	Commit   *patch.Commit   `json:"commit,omitempty"`
}

type SendPatchRequest struct {
	Patches []patch.Patch `json:"patches"`
}

type SendPatchReply struct {
	Seq uint64 `json:"seq"`
}

type StateSyncServer interface {
	Snapshot(context.Context, *SnapshotRequest) (*SnapshotReply, error)
	Subscribe(*SubscribeRequest, StateSync_SubscribeServer) error
	SendPatch(context.Context, *SendPatchRequest) (*SendPatchReply, error)
}

type UnimplementedStateSyncServer struct{}

func (UnimplementedStateSyncServer) Snapshot(context.Context, *SnapshotRequest) (*SnapshotReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Snapshot not implemented")
}

func (UnimplementedStateSyncServer) Subscribe(*SubscribeRequest, StateSync_SubscribeServer) error {
	return status.Errorf(codes.Unimplemented, "method Subscribe not implemented")
}

func (UnimplementedStateSyncServer) SendPatch(context.Context, *SendPatchRequest) (*SendPatchReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendPatch not implemented")
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StateSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Snapshot", Handler: snapshotHandler},
		{MethodName: "SendPatch", Handler: sendPatchHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
}

func RegisterStateSyncServer(s grpc.ServiceRegistrar, srv StateSyncServer) {
	s.RegisterService(&serviceDesc, srv)
}

func snapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StateSyncServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StateSyncServer).Snapshot(ctx, req.(*SnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func sendPatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendPatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StateSyncServer).SendPatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/SendPatch"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StateSyncServer).SendPatch(ctx, req.(*SendPatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type StateSync_SubscribeServer interface {
	Send(*SubscribeEvent) error
	grpc.ServerStream
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StateSyncServer).Subscribe(m, &subscribeServer{stream})
}

type subscribeServer struct{ grpc.ServerStream }

func (x *subscribeServer) Send(m *SubscribeEvent) error { return x.ServerStream.SendMsg(m) }

// Client

type StateSyncClient interface {
	Snapshot(ctx context.Context, in *SnapshotRequest, opts ...grpc.CallOption) (*SnapshotReply, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (StateSync_SubscribeClient, error)
	SendPatch(ctx context.Context, in *SendPatchRequest, opts ...grpc.CallOption) (*SendPatchReply, error)
}

type stateSyncClient struct{ cc grpc.ClientConnInterface }

func NewStateSyncClient(cc grpc.ClientConnInterface) StateSyncClient { return &stateSyncClient{cc} }

func (c *stateSyncClient) Snapshot(ctx context.Context, in *SnapshotRequest, opts ...grpc.CallOption) (*SnapshotReply, error) {
	out := new(SnapshotReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Snapshot", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stateSyncClient) SendPatch(ctx context.Context, in *SendPatchRequest, opts ...grpc.CallOption) (*SendPatchReply, error) {
	out := new(SendPatchReply)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SendPatch", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type StateSync_SubscribeClient interface {
	Recv() (*SubscribeEvent, error)
	grpc.ClientStream
}

func (c *stateSyncClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (StateSync_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], "/"+serviceName+"/Subscribe", opts...)
	if err != nil {
		return nil, err
	}
	x := &subscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type subscribeClient struct{ grpc.ClientStream }

func (x *subscribeClient) Recv() (*SubscribeEvent, error) {
	m := new(SubscribeEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
