package game

import (
	"flag"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GAROBALL_ENV_FILE", "does-not-exist.env")
	t.Setenv("GAROBALL_GAME_PORT", "")
	t.Setenv("GAROBALL_GAME_ADDR", "")
	t.Setenv("GAROBALL_GAME_HTTP_ADDR", "")
}

func TestParseConfigDefaults(t *testing.T) {
	clearEnv(t)
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8082 {
		t.Fatalf("port = %d, want 8082", cfg.Port)
	}
	if cfg.HTTPAddr != ":8083" {
		t.Fatalf("http addr = %q, want :8083", cfg.HTTPAddr)
	}
	if got := cfg.Addrs().GRPC; got != ":8082" {
		t.Fatalf("grpc addr = %q, want :8082", got)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	clearEnv(t)
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-addr", "127.0.0.1:9999", "-http-addr", ""})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	addrs := cfg.Addrs()
	if addrs.GRPC != "127.0.0.1:9999" || addrs.HTTP != "" {
		t.Fatalf("addrs = %+v", addrs)
	}
}

func TestParseConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAROBALL_GAME_PORT", "7000")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 7000 {
		t.Fatalf("port = %d, want 7000", cfg.Port)
	}
}
