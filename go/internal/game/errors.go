package game

import "errors"

var (
	ErrCapacityExceeded       = errors.New("player capacity exceeded")
	ErrDuplicatePlayer        = errors.New("player already exists")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrNoFeasibleWord         = errors.New("no word satisfies the required character count")
	ErrInvalidRoundSettings   = errors.New("invalid round settings")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidMaxPlayers      = errors.New("max players must be at least 1")
)
