package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/garoball/internal/platform/errors"
	"github.com/louisbranch/garoball/internal/platform/grpc/pagination"
	"github.com/louisbranch/garoball/internal/platform/id"
	platformotel "github.com/louisbranch/garoball/internal/platform/otel"
	"github.com/louisbranch/garoball/internal/platform/timeouts"
	"github.com/louisbranch/garoball/internal/services/game/domain/game"
	"github.com/louisbranch/garoball/internal/services/game/domain/rng"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/domain/sim"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

// PlayPageSize bounds ListPlays pages.
var PlayPageSize = pagination.PageSizeConfig{Default: 50, Max: 500}

// Option configures a Service.
type Option func(*Service)

// WithIDs replaces the game id generator.
func WithIDs(fn func() (string, error)) Option {
	return func(s *Service) { s.newID = fn }
}

// WithSeeds replaces the seed source used when a game names none.
func WithSeeds(fn func() (uint32, error)) Option {
	return func(s *Service) { s.newSeed = fn }
}

// WithHandedness sets the blend strategy for games that do not choose one.
func WithHandedness(enabled bool) Option {
	return func(s *Service) { s.handedness = enabled }
}

// WithLogger replaces the logger for game events.
func WithLogger(logf func(string, ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

// Service runs games against a store.
type Service struct {
	store      storage.Store
	cfg        sim.Config
	handedness bool
	newID      func() (string, error)
	newSeed    func() (uint32, error)
	logf       func(string, ...any)
	tracer     trace.Tracer
	locks      keyedLocks
}

// New validates cfg and returns a service over store.
func New(store storage.Store, cfg sim.Config, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}
	s := &Service{
		store:   store,
		cfg:     cfg,
		newID:   id.NewID,
		newSeed: rng.NewSeed,
		logf:    log.Printf,
		tracer:  platformotel.Tracer("garoball/game/service"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// PutPlayer validates and stores a player.
func (s *Service) PutPlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	if strings.TrimSpace(p.ID) == "" {
		return roster.Player{}, apperrors.New(apperrors.CodePlayerIDRequired, "player id is required")
	}
	normalized, err := p.Normalize()
	if err != nil {
		return roster.Player{}, apperrors.WrapWithMetadata(apperrors.CodePlayerInvalid, err.Error(),
			map[string]string{"PlayerID": p.ID, "Reason": err.Error()}, err)
	}
	if err := s.store.PutPlayer(ctx, normalized); err != nil {
		return roster.Player{}, internal("put player", err)
	}
	return normalized, nil
}

// GetPlayer returns a stored player.
func (s *Service) GetPlayer(ctx context.Context, playerID string) (roster.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return roster.Player{}, apperrors.New(apperrors.CodePlayerIDRequired, "player id is required")
	}
	p, err := s.store.GetPlayer(ctx, playerID)
	if errors.Is(err, storage.ErrNotFound) {
		return roster.Player{}, apperrors.WrapWithMetadata(apperrors.CodePlayerNotFound, "player not found",
			map[string]string{"PlayerID": playerID}, err)
	}
	if err != nil {
		return roster.Player{}, internal("get player", err)
	}
	return p, nil
}

// ListPlayers returns every stored player.
func (s *Service) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, internal("list players", err)
	}
	return players, nil
}

// CreateGameInput describes a new game. Seed wins over SeedText; with
// neither a random seed is drawn. Handedness defaults to the service's
// setting.
type CreateGameInput struct {
	ID         string
	Home       game.TeamSetup
	Away       game.TeamSetup
	Seed       *uint32
	SeedText   string
	Handedness *bool
}

// GameView is a stored game and the players it will play at league average.
type GameView struct {
	Game storage.GameRecord
	// Defaulted lists lineup players and pitchers without a stored rating.
	Defaulted []string
}

// CreateGame validates the setup and stores a scheduled game.
func (s *Service) CreateGame(ctx context.Context, in CreateGameInput) (GameView, error) {
	gameID := strings.TrimSpace(in.ID)
	if gameID == "" {
		generated, err := s.newID()
		if err != nil {
			return GameView{}, internal("generate game id", err)
		}
		gameID = generated
	}
	seed, err := s.seedFor(in)
	if err != nil {
		return GameView{}, internal("generate seed", err)
	}
	handedness := s.handedness
	if in.Handedness != nil {
		handedness = *in.Handedness
	}

	state, err := game.New(game.Setup{ID: gameID, Home: in.Home, Away: in.Away, Seed: seed, Handedness: handedness})
	if err != nil {
		var setupErr *game.SetupError
		if errors.As(err, &setupErr) {
			return GameView{}, apperrors.WrapWithMetadata(apperrors.CodeGameSetupInvalid, err.Error(),
				map[string]string{"Problems": strings.Join(setupErr.Problems, " ")}, err)
		}
		return GameView{}, internal("create game", err)
	}

	ratings, err := s.ratings(ctx, state)
	if err != nil {
		return GameView{}, err
	}
	home, away := sim.Managers(s.cfg, ratings, state, nil, nil)
	rec := storage.GameRecord{ID: gameID, State: state, HomeStaff: home.Snapshot(), AwayStaff: away.Snapshot()}
	if err := s.store.CreateGame(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return GameView{}, apperrors.WrapWithMetadata(apperrors.CodeGameSetupInvalid, "game id already exists",
				map[string]string{"Problems": fmt.Sprintf("Game %s already exists.", gameID)}, err)
		}
		return GameView{}, internal("store game", err)
	}
	stored, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return GameView{}, internal("load game", err)
	}
	return GameView{Game: stored, Defaulted: sim.MissingRatings(state, ratings)}, nil
}

func (s *Service) seedFor(in CreateGameInput) (uint32, error) {
	switch {
	case in.Seed != nil:
		return *in.Seed, nil
	case strings.TrimSpace(in.SeedText) != "":
		return rng.SeedFromString(in.SeedText), nil
	default:
		return s.newSeed()
	}
}

// GetGame returns a stored game.
func (s *Service) GetGame(ctx context.Context, gameID string) (GameView, error) {
	rec, err := s.loadGame(ctx, gameID)
	if err != nil {
		return GameView{}, err
	}
	ratings, err := s.ratings(ctx, rec.State)
	if err != nil {
		return GameView{}, err
	}
	return GameView{Game: rec, Defaulted: sim.MissingRatings(rec.State, ratings)}, nil
}

// SimulateResult is the outcome of one simulate request.
type SimulateResult struct {
	Game  storage.GameRecord
	Plays []storage.PlayRecord
}

// Simulate advances a game by one play, one half-inning or to the end.
//
// Progress made before the step ceiling is persisted and returned along
// with a SIMULATE_STEP_LIMIT error. The whole call is bounded by
// timeouts.Simulate.
func (s *Service) Simulate(ctx context.Context, gameID, modeName string) (SimulateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Simulate)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "game.Simulate", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("simulate.mode", modeName),
	))
	defer span.End()

	result, err := s.simulate(ctx, gameID, modeName)
	span.SetAttributes(attribute.Int("simulate.plays", len(result.Plays)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (s *Service) simulate(ctx context.Context, gameID, modeName string) (SimulateResult, error) {
	mode, err := sim.ParseMode(modeName)
	if err != nil {
		return SimulateResult{}, apperrors.WrapWithMetadata(apperrors.CodeSimulateModeInvalid, err.Error(),
			map[string]string{"Mode": modeName}, err)
	}
	gameID = strings.TrimSpace(gameID)
	unlock := s.locks.Lock(gameID)
	defer unlock()

	rec, err := s.loadGame(ctx, gameID)
	if err != nil {
		return SimulateResult{}, err
	}
	if rec.State.Completed() {
		return SimulateResult{Game: rec}, completed(gameID)
	}
	ratings, err := s.ratings(ctx, rec.State)
	if err != nil {
		return SimulateResult{}, err
	}
	home, away := sim.Managers(s.cfg, ratings, rec.State, rec.HomeStaff, rec.AwayStaff)
	engine := sim.Engine{Config: s.cfg, Ratings: ratings, Home: home, Away: away}

	res, runErr := engine.Run(ctx, rec.State, mode)
	limited := errors.Is(runErr, sim.ErrStepLimit)
	if runErr != nil && !limited {
		if errors.Is(runErr, game.ErrGameCompleted) {
			return SimulateResult{Game: rec}, completed(gameID)
		}
		return SimulateResult{Game: rec}, internal("simulate", runErr)
	}

	next := rec
	next.State = res.State
	next.HomeStaff = home.Snapshot()
	next.AwayStaff = away.Snapshot()
	plays := make([]storage.PlayRecord, 0, len(res.Steps))
	for _, step := range res.Steps {
		plays = append(plays, storage.PlayRecord{GameID: gameID, Play: step.Play, Change: step.Change})
	}

	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.UpdateGame(ctx, next); err != nil {
			return err
		}
		if err := s.store.AppendPlays(ctx, gameID, plays); err != nil {
			return err
		}
		if !next.State.Completed() {
			return nil
		}
		return s.store.RecordResult(ctx, storage.GameResult{
			GameID:     gameID,
			HomeTeamID: next.State.Home.TeamID,
			AwayTeamID: next.State.Away.TeamID,
			HomeRuns:   next.State.HomeScore,
			AwayRuns:   next.State.AwayScore,
		})
	})
	if err != nil {
		return SimulateResult{Game: rec}, internal("persist simulation", err)
	}

	stored, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return SimulateResult{}, internal("load game", err)
	}
	s.logSteps(gameID, res.Steps, stored.State)

	out := SimulateResult{Game: stored, Plays: plays}
	if limited {
		return out, apperrors.WrapWithMetadata(apperrors.CodeSimulateStepLimit, runErr.Error(),
			map[string]string{"Steps": strconv.Itoa(len(res.Steps))}, runErr)
	}
	return out, nil
}

func (s *Service) logSteps(gameID string, steps []sim.Step, state game.State) {
	for _, step := range steps {
		if c := step.Change; c != nil {
			s.logf("game %s: %s pitching change in the %s of %d, %s replaces %s (%s)",
				gameID, c.TeamID, c.Half, c.Inning, c.Incoming, c.Outgoing, c.Decision.Reason)
		}
	}
	if state.Completed() {
		s.logf("game %s final: %s %d, %s %d", gameID, state.Away.TeamID, state.AwayScore, state.Home.TeamID, state.HomeScore)
	}
}

// PlayPage is one page of a game's play log.
type PlayPage struct {
	Plays         []storage.PlayRecord
	Total         int
	NextPageToken string
}

// ListPlays returns a page of a game's plays in order.
func (s *Service) ListPlays(ctx context.Context, gameID string, pageSize int32, pageToken string) (PlayPage, error) {
	offset, err := pagination.DecodeOffset(pageToken)
	if err != nil {
		return PlayPage{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
	}
	if _, err := s.loadGame(ctx, gameID); err != nil {
		return PlayPage{}, err
	}
	size := pagination.ClampPageSize(pageSize, PlayPageSize)
	plays, total, err := s.store.ListPlays(ctx, strings.TrimSpace(gameID), offset, size)
	if err != nil {
		return PlayPage{}, internal("list plays", err)
	}
	return PlayPage{Plays: plays, Total: total, NextPageToken: pagination.Next(offset, len(plays), total)}, nil
}

// Standings returns every team's record, best first.
func (s *Service) Standings(ctx context.Context) ([]storage.StandingRecord, error) {
	records, err := s.store.ListStandings(ctx)
	if err != nil {
		return nil, internal("list standings", err)
	}
	return records, nil
}

func (s *Service) loadGame(ctx context.Context, gameID string) (storage.GameRecord, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.GameRecord{}, apperrors.New(apperrors.CodeGameIDRequired, "game id is required")
	}
	rec, err := s.store.GetGame(ctx, gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.GameRecord{}, apperrors.WrapWithMetadata(apperrors.CodeGameNotFound, "game not found",
			map[string]string{"GameID": gameID}, err)
	}
	if err != nil {
		return storage.GameRecord{}, internal("get game", err)
	}
	return rec, nil
}

// ratings loads the stored players a game references. Players without a
// record are left out and play at league average.
func (s *Service) ratings(ctx context.Context, state game.State) (sim.RatingMap, error) {
	out := make(sim.RatingMap)
	for _, side := range []game.Side{state.Away, state.Home} {
		ids := append(append(append([]string(nil), side.Lineup...), side.Pitchers...), side.Bullpen...)
		for _, playerID := range ids {
			if _, ok := out[playerID]; ok {
				continue
			}
			p, err := s.store.GetPlayer(ctx, playerID)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, internal("load ratings", err)
			}
			out[playerID] = p.Rating()
		}
	}
	return out, nil
}

func completed(gameID string) error {
	return apperrors.WithMetadata(apperrors.CodeGameCompleted, "game is completed", map[string]string{"GameID": gameID})
}

func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeInternal, fmt.Sprintf("%s: %v", op, err), err)
}
