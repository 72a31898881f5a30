// Package cmd holds the startup plumbing shared by garoball commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/garoball/internal/platform/config"
	"github.com/louisbranch/garoball/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// EnvFileVar names the variable that points at a dotenv file. When unset,
// ".env" in the working directory is tried.
const EnvFileVar = "GAROBALL_ENV_FILE"

// Service identifiers for telemetry and CLI naming.
const (
	ServiceGame = "game"
	ServiceSim  = "sim"
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout bounds telemetry shutdown.
	ShutdownTimeout time.Duration
}

// ParseConfig loads the dotenv file and then environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	path := strings.TrimSpace(os.Getenv(EnvFileVar))
	if path == "" {
		path = ".env"
	}
	if err := config.LoadDotEnv(path); err != nil {
		return err
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry sets up tracing for service and runs it.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
// Tracing is flushed after run returns, whatever its result.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		timeout := options.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
