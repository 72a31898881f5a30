// Package grpc holds client-side gRPC helpers shared by garoball commands.
package grpc

import (
	"context"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPolicy bounds the polling done by WaitForHealth.
type HealthPolicy struct {
	// Initial is the first wait between checks. It doubles up to Max.
	Initial time.Duration
	Max     time.Duration
	// CheckTimeout caps each health RPC.
	CheckTimeout time.Duration
}

// DefaultHealthPolicy polls from 200ms up to once a second.
func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{Initial: 200 * time.Millisecond, Max: time.Second, CheckTimeout: time.Second}
}

// WaitForHealth blocks until the health check reports SERVING or ctx ends.
func WaitForHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string, logf func(string, ...any)) error {
	return WaitForHealthWith(ctx, conn, service, DefaultHealthPolicy(), logf)
}

// WaitForHealthWith is WaitForHealth with an explicit policy.
func WaitForHealthWith(ctx context.Context, conn gogrpc.ClientConnInterface, service string, policy HealthPolicy, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	client := grpc_health_v1.NewHealthClient(conn)
	wait := policy.Initial
	for {
		callCtx, cancel := context.WithTimeout(ctx, policy.CheckTimeout)
		resp, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		switch {
		case err != nil:
			logf("waiting for gRPC health: %v", err)
		case resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING:
			logf("gRPC health check is SERVING")
			return nil
		default:
			logf("waiting for gRPC health: status %s", resp.GetStatus())
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-timer.C:
		}
		wait = min(wait*2, policy.Max)
	}
}
