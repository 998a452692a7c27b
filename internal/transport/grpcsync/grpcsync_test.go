package grpcsync

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/payb0y/lindo-clean/internal/statesync"
	"github.com/payb0y/lindo-clean/internal/store"
	"github.com/payb0y/lindo-clean/pkg/patch"
)

func startServer(t *testing.T) (*store.Root, StateSyncClient) {
	t.Helper()
	hub := statesync.NewHub(statesync.WithBuffer(64))
	root := store.New(store.WithEmitter(hub))
	hub.SetSource(root)

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterStateSyncServer(gs, NewServer(hub, nil, nil))
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, client, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return root, client
}

func TestSubscribeStartsWithSnapshot(t *testing.T) {
	root, client := startServer(t)
	if _, err := root.AddGame(""); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Subscribe(ctx, &SubscribeRequest{})
	if err != nil {
		t.Fatal(err)
	}
	ev, err := stream.Recv()
	if err != nil || ev.Type != patch.TypeSnapshot || ev.Snapshot == nil || ev.Snapshot.Seq != 1 {
		t.Fatalf("first event %+v, %v", ev, err)
	}

	reply, err := client.SendPatch(ctx, &SendPatchRequest{Patches: []patch.Patch{patch.Replace("/gameStore/isMuted", true)}})
	if err != nil || reply.Seq != 2 {
		t.Fatalf("send patch: %+v %v", reply, err)
	}
	ev, err = stream.Recv()
	if err != nil || ev.Type != patch.TypePatch || ev.Commit.Seq != 2 {
		t.Fatalf("commit event %+v, %v", ev, err)
	}
	if !root.IsMuted() {
		t.Fatalf("patch not applied")
	}
}

func TestSendPatchInvalid(t *testing.T) {
	_, client := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := client.SendPatch(ctx, &SendPatchRequest{Patches: []patch.Patch{patch.Remove("/appStore")}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", err)
	}
	snap, err := client.Snapshot(ctx, &SnapshotRequest{})
	if err != nil || snap.Snapshot.Seq != 0 {
		t.Fatalf("snapshot %+v %v", snap, err)
	}
}
