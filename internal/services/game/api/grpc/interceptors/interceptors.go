// Package interceptors holds the unary middleware of the game gRPC server.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/garoball/internal/platform/errors"
	grpcmeta "github.com/louisbranch/garoball/internal/services/game/api/grpc/metadata"
)

// ErrorInterceptor turns domain errors into gRPC statuses localized for the
// caller's accept-language metadata. Errors that already carry a status
// pass through.
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}
		return resp, apperrors.From(err).StatusFor(grpcmeta.LocaleFromContext(ctx))
	}
}

// LoggingInterceptor logs each call's method, status code and duration.
func LoggingInterceptor(logf func(string, ...any)) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if logf == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		logf("grpc %s code=%s request_id=%s duration=%s",
			info.FullMethod, status.Code(err), grpcmeta.RequestIDFromContext(ctx), time.Since(start).Round(time.Microsecond))
		return resp, err
	}
}
