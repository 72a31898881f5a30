package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apperrors "github.com/louisbranch/garoball/internal/platform/errors"
	"github.com/louisbranch/garoball/internal/services/game/api/wire"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/service"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

const maxBodyBytes = 1 << 20

// Games is the service surface the handlers call.
type Games interface {
	PutPlayer(ctx context.Context, p roster.Player) (roster.Player, error)
	GetPlayer(ctx context.Context, playerID string) (roster.Player, error)
	ListPlayers(ctx context.Context) ([]roster.Player, error)
	CreateGame(ctx context.Context, in service.CreateGameInput) (service.GameView, error)
	GetGame(ctx context.Context, gameID string) (service.GameView, error)
	Simulate(ctx context.Context, gameID, mode string) (service.SimulateResult, error)
	ListPlays(ctx context.Context, gameID string, pageSize int32, pageToken string) (service.PlayPage, error)
	Standings(ctx context.Context) ([]storage.StandingRecord, error)
}

// HandlerDeps wires a Handler.
type HandlerDeps struct {
	Games Games
	// Logf defaults to log.Printf.
	Logf func(string, ...any)
}

// Handler serves the game routes.
type Handler struct {
	games Games
	logf  func(string, ...any)
}

// NewHandler builds a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	logf := deps.Logf
	if logf == nil {
		logf = log.Printf
	}
	return &Handler{games: deps.Games, logf: logf}
}

// Router mounts the handlers behind CORS and request-id middleware.
func (h *Handler) Router(allowedOrigins []string) chi.Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", h.Health)
	r.Route("/players", func(rr chi.Router) {
		rr.Get("/", h.ListPlayers)
		rr.Get("/{playerID}", h.GetPlayer)
		rr.Put("/{playerID}", h.PutPlayer)
	})
	r.Route("/games", func(rr chi.Router) {
		rr.Post("/", h.CreateGame)
		rr.Get("/{gameID}", h.GetGame)
		rr.Post("/{gameID}/simulate", h.Simulate)
		rr.Get("/{gameID}/plays", h.ListPlays)
	})
	r.Get("/standings", h.ListStandings)
	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) PutPlayer(w http.ResponseWriter, r *http.Request) {
	var p roster.Player
	if !h.decode(w, r, &p) {
		return
	}
	id := chi.URLParam(r, "playerID")
	if p.ID != "" && p.ID != id {
		h.fail(w, r, apperrors.WithMetadata(apperrors.CodePlayerInvalid, "player id does not match path",
			map[string]string{"PlayerID": id, "Reason": "id does not match path"}))
		return
	}
	p.ID = id
	out, err := h.games.PutPlayer(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.PlayerResponse{Player: out})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.games.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.PlayerResponse{Player: p})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.games.ListPlayers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ListPlayersResponse{Players: players})
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req wire.CreateGameRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.games.CreateGame(r.Context(), req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/games/"+view.Game.ID)
	writeJSON(w, http.StatusCreated, wire.FromView(view))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromView(view))
}

// Simulate advances a game by the mode query parameter.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	res, err := h.games.Simulate(r.Context(), chi.URLParam(r, "gameID"), r.URL.Query().Get("mode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromSimulate(res))
}

func (h *Handler) ListPlays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var size int32
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			h.fail(w, r, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page size", err))
			return
		}
		size = int32(n)
	}
	page, err := h.games.ListPlays(r.Context(), chi.URLParam(r, "gameID"), size, q.Get("page_token"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromPage(page))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.games.Standings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.ListStandingsResponse{Standings: standings})
}

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.From(err)
	code := appErr.Code.HTTPStatus()
	if code >= http.StatusInternalServerError {
		h.logf("%s %s: %v (request %s)", r.Method, r.URL.Path, err, middleware.GetReqID(r.Context()))
	}
	writeJSON(w, code, ErrorBody{
		Code:     string(appErr.Code),
		Message:  appErr.LocalizedMessage(locale(r)),
		Metadata: appErr.Metadata,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return true
	}
	msg := "invalid request body"
	if errors.Is(err, io.EOF) {
		msg = "request body is required"
	}
	writeJSON(w, http.StatusBadRequest, ErrorBody{Code: "INVALID_BODY", Message: msg + ": " + err.Error()})
	return false
}

// locale picks the first language tag of Accept-Language.
func locale(r *http.Request) string {
	raw := r.Header.Get("Accept-Language")
	if i := strings.IndexAny(raw, ",;"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
