package orchestrator

import (
	"github.com/mcdev12/vocabversus/go/internal/models"
)

// CheckGameRequest asks whether a game can be joined or rejoined
type CheckGameRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id,omitempty"`
}

// CheckGameResponse describes a game's availability for the caller
type CheckGameResponse struct {
	GameID              string           `json:"game_id"`
	State               models.GameState `json:"state"`
	PlayerCount         int              `json:"player_count"`
	MaxPlayers          int              `json:"max_players"`
	PlayerID            string           `json:"player_id"`
	CanReconnect        bool             `json:"can_reconnect"`
	IsPasswordProtected bool             `json:"is_password_protected"`
}

// JoinRequest adds the caller to a game's roster
type JoinRequest struct {
	GameID   string `json:"game_id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// RoundInfo is one played round as seen by a particular player
type RoundInfo struct {
	Round               int      `json:"round"`
	RequiredCharacters  []string `json:"required_characters"`
	IsCompletedByPlayer bool     `json:"is_completed_by_player"`
}

// JoinResponse is the full roster and round progress for the caller
type JoinResponse struct {
	GameID  string           `json:"game_id"`
	State   models.GameState `json:"state"`
	Players []models.Player  `json:"players"`
	Rounds  []RoundInfo      `json:"rounds"`
}

// ReconnectResponse adds the reconnecting player's name to the join payload
type ReconnectResponse struct {
	JoinResponse
	Username string `json:"username"`
}

// KickRequest removes a disconnected player
type KickRequest struct {
	PlayerID string `json:"player_id"`
}

// ReadyRequest sets the caller's readiness
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// SubmitRequest submits a word for the active round
type SubmitRequest struct {
	Word string `json:"word"`
}
