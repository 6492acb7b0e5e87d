package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/vocabversus/go/internal/models"
)

// Event is the envelope of every server frame: replies, errors and broadcasts.
type Event struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id,omitempty"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *ErrorPayload   `json:"error,omitempty"`
}

// EventType names a server frame
type EventType string

const (
	EventTypeResponse         EventType = "Response"
	EventTypeError            EventType = "Error"
	EventTypeUserJoined       EventType = "UserJoined"
	EventTypeUserLeft         EventType = "UserLeft"
	EventTypeUserRemoved      EventType = "UserRemoved"
	EventTypeUserReconnected  EventType = "UserReconnected"
	EventTypeUserReady        EventType = "UserReady"
	EventTypeGameStateChanged EventType = "GameStateChanged"
	EventTypeGameStarting     EventType = "GameStarting"
	EventTypeStartRound       EventType = "StartRound"
	EventTypeRoundEnding      EventType = "RoundEnding"
	EventTypeAddPoints        EventType = "AddPoints"
	EventTypeSubmitResult     EventType = "SubmitResult"
)

// NewEvent marshals payload into a new event envelope
func NewEvent(id, gameID string, eventType EventType, at time.Time, payload any) (*Event, error) {
	event := &Event{
		ID:        id,
		GameID:    gameID,
		Type:      eventType,
		Timestamp: at,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
		}
		event.Data = data
	}
	return event, nil
}

// ErrorPayload is the error body delivered to the calling connection only
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UserJoinedPayload is the payload for a UserJoined event
type UserJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// UserLeftPayload is the payload for a UserLeft event
type UserLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// UserRemovedPayload is the payload for a UserRemoved event
type UserRemovedPayload struct {
	PlayerID string `json:"player_id"`
}

// UserReconnectedPayload is the payload for a UserReconnected event
type UserReconnectedPayload struct {
	PlayerID string `json:"player_id"`
}

// UserReadyPayload is the payload for a UserReady event
type UserReadyPayload struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// GameStateChangedPayload is the payload for a GameStateChanged event
type GameStateChangedPayload struct {
	State     models.GameState `json:"state"`
	StateName string           `json:"state_name"`
}

// GameStartingPayload is the payload for a GameStarting event
type GameStartingPayload struct {
	StartsAt time.Time `json:"starts_at"`
}

// StartRoundPayload is the payload for a StartRound event
type StartRoundPayload struct {
	Round               int      `json:"round"`
	RequiredCharacters  []string `json:"required_characters"`
	IsCompletedByPlayer bool     `json:"is_completed_by_player"`
}

// RoundEndingPayload is the payload for a RoundEnding event
type RoundEndingPayload struct {
	Round  int       `json:"round"`
	EndsAt time.Time `json:"ends_at"`
}

// AddPointsPayload is the payload for an AddPoints event
type AddPointsPayload struct {
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
}

// SubmitResultPayload is the payload for a SubmitResult event
type SubmitResultPayload struct {
	IsCorrect bool `json:"is_correct"`
}
