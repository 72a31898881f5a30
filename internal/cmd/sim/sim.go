// Package sim parses sim command flags and plays one game, either locally
// or against a running game server.
package sim

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	entrypoint "github.com/louisbranch/garoball/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/garoball/internal/platform/grpc"
	"github.com/louisbranch/garoball/internal/platform/i18n/catalog"
	"github.com/louisbranch/garoball/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/garoball/internal/services/game/api/grpc/game"
	"github.com/louisbranch/garoball/internal/services/game/api/wire"
	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
)

// Config holds sim command configuration.
type Config struct {
	Roster     string `env:"GAROBALL_SIM_ROSTER"`
	Tuning     string `env:"GAROBALL_GAME_TUNING"`
	Server     string `env:"GAROBALL_SIM_SERVER"`
	Locale     string `env:"GAROBALL_LOCALE" envDefault:"en-US"`
	Seed       string
	Home       string
	Away       string
	Handedness bool
	Plays      bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Roster, "roster", cfg.Roster, "YAML roster file (built-in sample when empty)")
	fs.StringVar(&cfg.Tuning, "tuning", cfg.Tuning, "YAML engine tuning file")
	fs.StringVar(&cfg.Server, "addr", cfg.Server, "Game server gRPC address; plays locally when empty")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Output locale")
	fs.StringVar(&cfg.Seed, "seed", "", "Seed as a number or any text (random when empty)")
	fs.StringVar(&cfg.Home, "home", "", "Home team id (first roster team when empty)")
	fs.StringVar(&cfg.Away, "away", "", "Away team id (second roster team when empty)")
	fs.BoolVar(&cfg.Handedness, "handedness", true, "Apply batter/pitcher handedness")
	fs.BoolVar(&cfg.Plays, "plays", false, "Print the play-by-play")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Report is a finished game ready to print.
type Report struct {
	State     game.State
	Plays     []game.Play
	Changes   []sim.Change
	Defaulted []string
}

// Run plays one game and prints it to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSim, func(ctx context.Context) error {
		r, err := loadRoster(cfg.Roster)
		if err != nil {
			return err
		}
		home, away, err := teams(r, cfg.Home, cfg.Away)
		if err != nil {
			return err
		}
		var report Report
		if strings.TrimSpace(cfg.Server) != "" {
			report, err = playRemote(ctx, cfg, r, home, away)
		} else {
			report, err = playLocal(ctx, cfg, r, home, away)
		}
		if err != nil {
			return err
		}
		printer := message.NewPrinter(catalog.Default().Tag(cfg.Locale))
		return Render(out, printer, report, cfg.Plays)
	})
}

func loadRoster(path string) (roster.Roster, error) {
	if strings.TrimSpace(path) == "" {
		return roster.Sample(), nil
	}
	return roster.Load(path)
}

func teams(r roster.Roster, home, away string) (string, string, error) {
	if home == "" || away == "" {
		if len(r.Teams) < 2 {
			return "", "", errors.New("roster needs at least two teams")
		}
		if home == "" {
			home = r.Teams[0].ID
		}
		if away == "" {
			away = r.Teams[1].ID
			if away == home {
				away = r.Teams[0].ID
			}
		}
	}
	if home == away {
		return "", "", fmt.Errorf("team %q cannot play itself", home)
	}
	return home, away, nil
}

// parseSeed reads a number as the seed itself and hashes any other text.
// Empty input draws a random seed.
func parseSeed(value string) (uint32, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return rng.NewSeed()
	}
	if n, err := strconv.ParseUint(value, 10, 32); err == nil {
		return uint32(n), nil
	}
	return rng.SeedFromString(value), nil
}

func playLocal(ctx context.Context, cfg Config, r roster.Roster, homeID, awayID string) (Report, error) {
	simCfg, err := sim.LoadConfigFile(cfg.Tuning)
	if err != nil {
		return Report{}, err
	}
	seed, err := parseSeed(cfg.Seed)
	if err != nil {
		return Report{}, fmt.Errorf("seed: %w", err)
	}
	setup, err := r.Setup("sim", homeID, awayID, seed, cfg.Handedness)
	if err != nil {
		return Report{}, err
	}
	state, err := game.New(setup)
	if err != nil {
		return Report{}, err
	}
	ratings := r.Ratings()
	home, away := sim.Managers(simCfg, ratings, state, nil, nil)
	res, err := sim.Engine{Config: simCfg, Ratings: ratings, Home: home, Away: away}.Run(ctx, state, sim.ModeGame)
	if err != nil {
		return Report{}, fmt.Errorf("simulate: %w", err)
	}

	report := Report{State: res.State, Defaulted: sim.MissingRatings(state, ratings)}
	for _, step := range res.Steps {
		report.Plays = append(report.Plays, step.Play)
		if step.Change != nil {
			report.Changes = append(report.Changes, *step.Change)
		}
	}
	return report, nil
}

func playRemote(ctx context.Context, cfg Config, r roster.Roster, homeID, awayID string) (Report, error) {
	conn, err := platformgrpc.Connect(ctx, cfg.Server, timeouts.GRPCDial, log.Printf)
	if err != nil {
		return Report{}, err
	}
	defer conn.Close()
	client := gamegrpc.NewClient(conn)

	for _, p := range r.Players {
		if _, err := client.PutPlayer(ctx, wire.PutPlayerRequest{Player: p}); err != nil {
			return Report{}, fmt.Errorf("put player %s: %w", p.ID, err)
		}
	}
	home, _ := r.Team(homeID)
	away, _ := r.Team(awayID)
	if home.ID == "" || away.ID == "" {
		return Report{}, fmt.Errorf("unknown team in %q vs %q", homeID, awayID)
	}
	handedness := cfg.Handedness
	req := wire.CreateGameRequest{Home: home.Setup(), Away: away.Setup(), Handedness: &handedness}
	if seed := strings.TrimSpace(cfg.Seed); seed != "" {
		if n, err := strconv.ParseUint(seed, 10, 32); err == nil {
			v := uint32(n)
			req.Seed = &v
		} else {
			req.SeedText = seed
		}
	}
	created, err := client.CreateGame(ctx, req)
	if err != nil {
		return Report{}, fmt.Errorf("create game: %w", err)
	}
	res, err := client.Simulate(ctx, wire.SimulateRequest{GameID: created.Game.ID, Mode: string(sim.ModeGame)})
	if err != nil {
		return Report{}, fmt.Errorf("simulate: %w", err)
	}

	report := Report{State: res.Game.State, Defaulted: created.Defaulted}
	for _, rec := range res.Plays {
		report.Plays = append(report.Plays, rec.Play)
		if rec.Change != nil {
			report.Changes = append(report.Changes, *rec.Change)
		}
	}
	return report, nil
}
