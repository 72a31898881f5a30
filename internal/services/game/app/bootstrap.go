package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/louisbranch/garoball/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/garoball/internal/services/game/api/grpc/game"
	"github.com/louisbranch/garoball/internal/services/game/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/garoball/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/garoball/internal/services/game/api/rest"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
	"github.com/louisbranch/garoball/internal/services/game/service"
	"github.com/louisbranch/garoball/internal/services/game/storage"
	"github.com/louisbranch/garoball/internal/services/game/storage/sqlstore"
)

// closableStore is a store the server owns and closes on shutdown.
type closableStore interface {
	storage.Store
	Close() error
}

// serverBootstrap builds a Server from replaceable startup phases.
type serverBootstrap struct {
	config serverBootstrapConfig
}

type serverBootstrapConfig struct {
	loadEnv       func() serverEnv
	listen        func(network, address string) (net.Listener, error)
	openStore     func(context.Context, serverEnv) (closableStore, error)
	loadSimConfig func(path string) (sim.Config, error)
	newGRPCServer func() *grpc.Server
}

func newServerBootstrap() *serverBootstrap {
	return newServerBootstrapWithConfig(serverBootstrapConfig{})
}

func newServerBootstrapWithConfig(cfg serverBootstrapConfig) *serverBootstrap {
	if cfg.loadEnv == nil {
		cfg.loadEnv = loadServerEnv
	}
	if cfg.listen == nil {
		cfg.listen = net.Listen
	}
	if cfg.openStore == nil {
		cfg.openStore = openStore
	}
	if cfg.loadSimConfig == nil {
		cfg.loadSimConfig = sim.LoadConfigFile
	}
	if cfg.newGRPCServer == nil {
		cfg.newGRPCServer = func() *grpc.Server {
			return grpc.NewServer(
				grpc.StatsHandler(otelgrpc.NewServerHandler()),
				grpc.ChainUnaryInterceptor(
					grpcmeta.UnaryServerInterceptor(nil),
					interceptors.LoggingInterceptor(log.Printf),
					interceptors.ErrorInterceptor(),
				),
			)
		}
	}
	return &serverBootstrap{config: cfg}
}

// Addrs are the listen addresses of the two transports. An empty HTTP
// address disables the HTTP surface.
type Addrs struct {
	GRPC string
	HTTP string
}

// New builds a server listening on addrs.
func (b *serverBootstrap) New(ctx context.Context, addrs Addrs) (srv *Server, err error) {
	env := b.config.loadEnv()
	simCfg, err := b.config.loadSimConfig(env.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	listener, err := b.config.listen("tcp", addrs.GRPC)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addrs.GRPC, err)
	}
	defer func() {
		if err != nil {
			_ = listener.Close()
		}
	}()

	var httpListener net.Listener
	if addrs.HTTP != "" {
		httpListener, err = b.config.listen("tcp", addrs.HTTP)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", addrs.HTTP, err)
		}
		defer func() {
			if err != nil {
				_ = httpListener.Close()
			}
		}()
	}

	store, err := b.config.openStore(ctx, env)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = store.Close()
		}
	}()

	games, err := service.New(store, simCfg, service.WithHandedness(env.Handedness))
	if err != nil {
		return nil, fmt.Errorf("create game service: %w", err)
	}

	grpcServer := b.config.newGRPCServer()
	healthServer := health.NewServer()
	gamegrpc.Register(grpcServer, gamegrpc.NewGameService(games))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(gamegrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	srv = &Server{
		listener:     listener,
		grpcServer:   grpcServer,
		health:       healthServer,
		store:        store,
		httpListener: httpListener,
	}
	if httpListener != nil {
		handler := rest.NewHandler(rest.HandlerDeps{Games: games})
		srv.httpServer = &http.Server{
			Handler:           handler.Router(env.CORSOrigins),
			ReadHeaderTimeout: timeouts.ReadHeader,
		}
	}
	return srv, nil
}

func openStore(ctx context.Context, env serverEnv) (closableStore, error) {
	dialect, dsn, err := env.storeTarget()
	if err != nil {
		return nil, err
	}
	store, err := sqlstore.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	return store, nil
}
