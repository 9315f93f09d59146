package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

type gameUseCase interface {
	NewGame(ctx context.Context) (string, entity.Snapshot, error)
	State(ctx context.Context, gameID string) (entity.Snapshot, error)
	ApplyMove(ctx context.Context, gameID string, cell int) (timeline.MoveResult, entity.Snapshot, error)
	GoTo(ctx context.Context, gameID string, index int) (entity.Snapshot, error)
	Reset(ctx context.Context, gameID string) (entity.Snapshot, error)
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type gotoRequest struct {
	Index *int `json:"index"`
}

type gameResponse struct {
	ID       string          `json:"id"`
	Snapshot entity.Snapshot `json:"snapshot"`
}

type moveResponse struct {
	timeline.MoveResult
	Snapshot entity.Snapshot `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	games  gameUseCase
}

// NewRouter - returns the HTTP API of the game.
func NewRouter(logger *slog.Logger, games gameUseCase) http.Handler {
	that := &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("POST /games", that.createGame)
	mux.HandleFunc("GET /games/{id}", that.getGame)
	mux.HandleFunc("POST /games/{id}/moves", that.applyMove)
	mux.HandleFunc("POST /games/{id}/goto", that.goTo)
	mux.HandleFunc("POST /games/{id}/reset", that.reset)

	return mux
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	gameID, snapshot, err := that.games.NewGame(r.Context())
	if err != nil {
		that.writeError(w, "createGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{ID: gameID, Snapshot: snapshot})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.games.State(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "getGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) applyMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	result, snapshot, err := that.games.ApplyMove(r.Context(), r.PathValue("id"), *req.Cell)
	if err != nil {
		that.writeError(w, "applyMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{MoveResult: result, Snapshot: snapshot})
}

func (that *handlers) goTo(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index is required"})
		return
	}

	snapshot, err := that.games.GoTo(r.Context(), r.PathValue("id"), *req.Index)
	if err != nil {
		that.writeError(w, "goTo", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.games.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "reset", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
	case errors.Is(err, timeline.ErrIndexOutOfRange):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index out of range"})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
