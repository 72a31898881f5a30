package interceptors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/garoball/internal/platform/errors"
	grpcmeta "github.com/louisbranch/garoball/internal/services/game/api/grpc/metadata"
)

func TestErrorInterceptorLocalizesDomainErrors(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(grpcmeta.LocaleHeader, "pt-BR"))
	domainErr := apperrors.WithMetadata(apperrors.CodeGameNotFound, "game not found", map[string]string{"GameID": "g9"})

	_, err := ErrorInterceptor()(ctx, nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return nil, domainErr
	})
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.NotFound {
		t.Fatalf("status = %v, want NotFound", err)
	}
	var localized string
	for _, d := range st.Details() {
		if lm, ok := d.(*errdetails.LocalizedMessage); ok {
			localized = lm.GetMessage()
		}
	}
	if !strings.Contains(localized, "g9") || !strings.Contains(localized, "jogo") {
		t.Fatalf("localized = %q", localized)
	}
}

func TestErrorInterceptorPassesStatuses(t *testing.T) {
	want := status.Error(codes.Unavailable, "down")
	_, err := ErrorInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return nil, want
	})
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("code = %v, want Unavailable", status.Code(err))
	}

	_, err = ErrorInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{}, func(context.Context, any) (any, error) {
		return nil, errors.New("plain")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var lines []string
	logf := func(format string, args ...any) { lines = append(lines, format) }
	info := &grpc.UnaryServerInfo{FullMethod: "/garoball.game.v1.GameService/GetGame"}
	resp, err := LoggingInterceptor(logf)(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("resp = %v, err %v", resp, err)
	}
	if len(lines) != 1 {
		t.Fatalf("logged %d lines, want 1", len(lines))
	}
}
