package interceptors

import (
	"context"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Config is a minimal retry/timeout configuration.
type Config struct {
	Timeout     time.Duration // per-call default timeout if context has no deadline
	MaxAttempts int           // including first attempt
	BackoffBase time.Duration
}

func defaultConfig() Config {
	return Config{Timeout: 5 * time.Second, MaxAttempts: 3, BackoffBase: 100 * time.Millisecond}
}

// Chain returns dial options that retry Unavailable calls with backoff. Unary
// calls get a default timeout; streams are long-lived and only their opening
// is retried.
func Chain(cfg *Config) []grpc.DialOption {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	ui := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok && c.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}
		return retry(ctx, c, func() error { return invoker(ctx, method, req, reply, cc, opts...) })
	}
	si := func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		var cs grpc.ClientStream
		err := retry(ctx, c, func() error {
			var err error
			cs, err = streamer(ctx, desc, cc, method, opts...)
			return err
		})
		return cs, err
	}
	return []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(ui),
		grpc.WithChainStreamInterceptor(si),
	}
}

func retry(ctx context.Context, c Config, call func() error) error {
	for attempt := 1; ; attempt++ {
		err := call()
		if err == nil || attempt >= c.MaxAttempts {
			return err
		}
		if st, _ := status.FromError(err); st.Code() != codes.Unavailable {
			return err
		}
		select {
		case <-time.After(backoff(c.BackoffBase, attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
}
