package metadata

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/garoball/internal/platform/id"
)

// RequestIDHeader is the gRPC metadata key for request correlation ids.
const RequestIDHeader = "x-garoball-request-id"

// LocaleHeader is the gRPC metadata key carrying the caller's languages, in
// Accept-Language form.
const LocaleHeader = "accept-language"

type contextKey string

const requestIDContextKey contextKey = "garoball-request-id"

// RequestIDFromContext returns the request id stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// WithRequestID stores the request id in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// LocaleFromContext returns the caller's Accept-Language value, or "".
func LocaleFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, LocaleHeader)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// UnaryServerInterceptor gives every call a request id, taken from the
// caller's metadata or generated, echoes it in the response header and
// tags the active span with it.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			requestID = FirstMetadataValue(md, RequestIDHeader)
		}
		if requestID == "" {
			generated, err := idGenerator()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "generate request id: %v", err)
			}
			requestID = generated
		}
		ctx = WithRequestID(ctx, requestID)
		if err := grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("garoball.request_id", requestID))
		return handler(ctx, req)
	}
}
