// Command game serves the garoball game service over gRPC and HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	gamecmd "github.com/louisbranch/garoball/internal/cmd/game"
	"github.com/louisbranch/garoball/internal/platform/config"
)

func main() {
	log.SetPrefix("[GAME] ")
	cfg, err := gamecmd.ParseConfig(flag.NewFlagSet("game", flag.ExitOnError), os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("starting game server: grpc %s, http %q", cfg.Addrs().GRPC, cfg.Addrs().HTTP)
	if err := gamecmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("serve: %v", err)
	}
	log.Printf("game server stopped")
}
