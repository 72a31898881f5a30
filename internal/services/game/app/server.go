package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/louisbranch/garoball/internal/platform/timeouts"
)

// Server hosts the garoball game service.
type Server struct {
	listener     net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	store        closableStore
	httpListener net.Listener
	httpServer   *http.Server
}

// New creates a game server on the given gRPC port and HTTP address.
func New(ctx context.Context, port int, httpAddr string) (*Server, error) {
	return NewWithAddrs(ctx, Addrs{GRPC: fmt.Sprintf(":%d", port), HTTP: httpAddr})
}

// NewWithAddrs creates a game server listening on addrs.
func NewWithAddrs(ctx context.Context, addrs Addrs) (*Server, error) {
	return newServerBootstrap().New(ctx, addrs)
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the HTTP listener address, or "" when HTTP is off.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// Run creates and serves a game server until ctx ends.
func Run(ctx context.Context, addrs Addrs) error {
	srv, err := NewWithAddrs(ctx, addrs)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve runs both transports and blocks until one fails or ctx ends, then
// stops the other gracefully and closes the store.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	serveErr := make(chan error, 2)
	log.Printf("game server listening at %v", s.listener.Addr())
	go func() {
		err := s.grpcServer.Serve(s.listener)
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr <- fmt.Errorf("serve gRPC: %w", err)
			return
		}
		serveErr <- nil
	}()
	running := 1
	if s.httpServer != nil {
		log.Printf("game http listening at %v", s.httpListener.Addr())
		running++
		go func() {
			err := s.httpServer.Serve(s.httpListener)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("serve HTTP: %w", err)
				return
			}
			serveErr <- nil
		}()
	}

	var first error
	select {
	case <-ctx.Done():
	case first = <-serveErr:
		running--
	}
	s.shutdown()
	for ; running > 0; running-- {
		if err := <-serveErr; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Server) shutdown() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("shutdown http: %v", err)
		}
	}
	s.grpcServer.GracefulStop()
}

func (s *Server) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close game store: %v", err)
	}
}
