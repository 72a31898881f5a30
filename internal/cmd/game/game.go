// Package game parses game command flags and starts the game server.
package game

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/garoball/internal/platform/cmd"
	server "github.com/louisbranch/garoball/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port     int    `env:"GAROBALL_GAME_PORT" envDefault:"8082"`
	Addr     string `env:"GAROBALL_GAME_ADDR"`
	HTTPAddr string `env:"GAROBALL_GAME_HTTP_ADDR" envDefault:":8083"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server gRPC port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server gRPC listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The game server HTTP listen address (empty disables HTTP)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addrs resolves the listen addresses.
func (c Config) Addrs() server.Addrs {
	grpcAddr := c.Addr
	if grpcAddr == "" {
		grpcAddr = fmt.Sprintf(":%d", c.Port)
	}
	return server.Addrs{GRPC: grpcAddr, HTTP: c.HTTPAddr}
}

// Run starts the game server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Addrs())
	})
}
