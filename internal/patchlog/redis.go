package patchlog

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

type redisSink struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

// NewRedis mirrors commits to a Redis stream, one entry per commit.
func NewRedis(url, stream string, maxLen int64) (Sink, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	if stream == "" {
		stream = "lindo:patches"
	}
	return &redisSink{cli: redis.NewClient(opt), stream: stream, maxLen: maxLen}, nil
}

func (s *redisSink) Close() error { return s.cli.Close() }

func (s *redisSink) Mirror(ctx context.Context, c patch.Commit) error {
	b, err := encode(c)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{Stream: s.stream, Values: map[string]any{"seq": c.Seq, "data": string(b)}}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return s.cli.XAdd(ctx, args).Err()
}
