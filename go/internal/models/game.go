package models

import (
	"time"
)

// GameState defines the lifecycle state of a game instance.
type GameState int

const (
	GameStateLobby GameState = iota
	GameStateStarting
	GameStateStarted
	GameStateEnded
)

func (s GameState) String() string {
	switch s {
	case GameStateLobby:
		return "LOBBY"
	case GameStateStarting:
		return "STARTING"
	case GameStateStarted:
		return "STARTED"
	case GameStateEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// GameSettings holds the gameplay configuration of a game instance.
type GameSettings struct {
	RoundEndDelaySec     int `json:"round_end_delay_sec" yaml:"round_end_delay_sec"`
	MinRequiredChars     int `json:"min_required_chars" yaml:"min_required_chars"`
	MaxRequiredChars     int `json:"max_required_chars" yaml:"max_required_chars"`
	IncorrectCharsMargin int `json:"incorrect_chars_margin" yaml:"incorrect_chars_margin"`
}

// DefaultGameSettings returns the settings used when a creation request omits them.
func DefaultGameSettings() GameSettings {
	return GameSettings{
		RoundEndDelaySec:     10,
		MinRequiredChars:     1,
		MaxRequiredChars:     1,
		IncorrectCharsMargin: 0,
	}
}

// RoundEndDelay is the wait between the first completion of a round and the next round.
func (s GameSettings) RoundEndDelay() time.Duration {
	if s.RoundEndDelaySec <= 0 {
		return 0
	}
	return time.Duration(s.RoundEndDelaySec) * time.Second
}
