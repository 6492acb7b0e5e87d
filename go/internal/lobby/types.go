package lobby

import (
	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/internal/models"
)

// CreateGameRequest represents the data needed to create a new game instance.
// Zero MaxPlayers and nil Settings fall back to the configured defaults.
type CreateGameRequest struct {
	WordSetID  uuid.UUID            `json:"word_set_id"`
	MaxPlayers int                  `json:"max_players,omitempty"`
	Settings   *models.GameSettings `json:"settings,omitempty"`
	Password   string               `json:"password,omitempty"`
}

// CreateGameResponse is returned by the creation endpoint
type CreateGameResponse struct {
	GameID string `json:"game_id"`
}
