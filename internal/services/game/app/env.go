package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/garoball/internal/platform/config"
	"github.com/louisbranch/garoball/internal/services/game/storage/sqlstore"
)

// serverEnv holds the environment settings read at startup.
type serverEnv struct {
	DBDriver    string   `env:"GAROBALL_GAME_DB_DRIVER" envDefault:"sqlite"`
	DBPath      string   `env:"GAROBALL_GAME_DB_PATH" envDefault:"data/game.db"`
	DBDSN       string   `env:"GAROBALL_GAME_DB_DSN"`
	TuningPath  string   `env:"GAROBALL_GAME_TUNING"`
	Handedness  bool     `env:"GAROBALL_GAME_HANDEDNESS" envDefault:"true"`
	CORSOrigins []string `env:"GAROBALL_GAME_CORS_ORIGINS" envSeparator:","`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		log.Printf("game env: %v", err)
	}
	return cfg
}

// storeTarget resolves the dialect and connection string. Postgres needs
// a DSN; sqlite falls back to the db path and creates its directory.
func (e serverEnv) storeTarget() (sqlstore.Dialect, string, error) {
	dialect, err := sqlstore.ParseDialect(e.DBDriver)
	if err != nil {
		return "", "", err
	}
	if dsn := strings.TrimSpace(e.DBDSN); dsn != "" {
		return dialect, dsn, nil
	}
	if dialect == sqlstore.DialectPostgres {
		return "", "", fmt.Errorf("GAROBALL_GAME_DB_DSN is required for %s", dialect)
	}
	path := strings.TrimSpace(e.DBPath)
	if path == "" {
		path = filepath.Join("data", "game.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("create storage dir: %w", err)
		}
	}
	return dialect, path, nil
}
