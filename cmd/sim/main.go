package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	simcmd "github.com/louisbranch/garoball/internal/cmd/sim"
	"github.com/louisbranch/garoball/internal/platform/config"
)

func main() {
	cfg, err := simcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[SIM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simcmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("sim: %v", err)
	}
}
