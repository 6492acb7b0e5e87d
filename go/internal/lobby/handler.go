package lobby

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/vocabversus/go/clients/wordset_client"
	"github.com/rs/zerolog/log"
)

const maxRequestBytes = 1 << 16

// Handler serves the game creation endpoint
type Handler struct {
	app *App
}

// NewHandler creates a new lobby HTTP handler
func NewHandler(app *App) *Handler {
	return &Handler{app: app}
}

// HandleInitialize handles POST /api/hub/initialize
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CreateGameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	gameID, err := h.app.CreateGame(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, wordset_client.ErrWordSetNotFound):
			http.Error(w, "Word set not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInfeasibleSettings):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("word_set_id", req.WordSetID.String()).Msg("failed to create game")
			http.Error(w, "Failed to create game", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CreateGameResponse{GameID: gameID}); err != nil {
		log.Error().Err(err).Msg("failed to encode create game response")
	}
}

// RegisterRoutes registers lobby routes with an HTTP mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/hub/initialize", h.HandleInitialize)
}
