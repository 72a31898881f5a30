package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int    `env:"GAROBALL_TEST_PORT" envDefault:"123"`
	Name string `env:"GAROBALL_TEST_NAME"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("GAROBALL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GAROBALL_TEST_NAME=dotenv\nGAROBALL_TEST_PORT=9\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("GAROBALL_TEST_PORT", "7")
	t.Setenv("GAROBALL_TEST_NAME", "")
	os.Unsetenv("GAROBALL_TEST_NAME")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Name != "dotenv" {
		t.Fatalf("name = %q, want dotenv", cfg.Name)
	}
	if cfg.Port != 7 {
		t.Fatalf("port = %d, want the existing value 7", cfg.Port)
	}
}

func TestParseEnvMap(t *testing.T) {
	t.Setenv("GAROBALL_TEST_NAME", "process")
	var cfg envTestConfig
	if err := ParseEnvMap(&cfg, map[string]string{"GAROBALL_TEST_PORT": "42"}); err != nil {
		t.Fatalf("ParseEnvMap: %v", err)
	}
	if cfg.Port != 42 || cfg.Name != "" {
		t.Fatalf("cfg = %+v, want port 42 and no name from the process", cfg)
	}

	if err := ParseEnvMap(&cfg, map[string]string{"GAROBALL_TEST_PORT": "x"}); err == nil {
		t.Fatal("expected error")
	}
}
