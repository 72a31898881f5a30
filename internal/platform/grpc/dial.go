package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DialStage describes where a connection attempt failed.
type DialStage string

const (
	// DialStageConnect indicates the client could not be created.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check never reported SERVING.
	DialStageHealth DialStage = "health"
)

// DialError wraps connection failures with the stage that failed.
type DialError struct {
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ClientOptions returns plaintext dial options with trace propagation.
func ClientOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Connect creates a client for addr and waits up to timeout for it to
// report healthy. The connection is closed when the check fails.
func Connect(ctx context.Context, addr string, timeout time.Duration, logf func(string, ...any), opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts) == 0 {
		opts = ClientOptions()
	}
	conn, err := gogrpc.NewClient(addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}

	healthCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		healthCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := WaitForHealth(healthCtx, conn, "", logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
