package grpcsync

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/payb0y/lindo-clean/internal/transport/interceptors"
)

// Dial connects to a StateSync server on the local host.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, StateSyncClient, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(Name)),
	}
	base = append(base, interceptors.Chain(nil)...)
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return conn, NewStateSyncClient(conn), nil
}
