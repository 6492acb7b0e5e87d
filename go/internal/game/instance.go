package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mcdev12/vocabversus/go/internal/models"
)

// Instance is one game session. Callers hold Lock for the whole of any read or
// mutation of the roster, the rounds or the state.
type Instance struct {
	mu sync.Mutex

	ID        string
	Settings  models.GameSettings
	Roster    *Roster
	Rounds    *RoundEngine
	CreatedAt time.Time

	password *Password
	state    models.GameState
}

// InstanceConfig holds everything needed to construct an Instance
type InstanceConfig struct {
	ID         string
	WordSet    models.WordSet
	MaxPlayers int
	Settings   models.GameSettings
	Password   *Password
	Rand       *rand.Rand
	CreatedAt  time.Time
}

// NewInstance builds a game in the Lobby state. It fails when the word set
// cannot serve the configured character counts.
func NewInstance(cfg InstanceConfig) (*Instance, error) {
	if cfg.MaxPlayers < 1 {
		return nil, ErrInvalidMaxPlayers
	}

	rounds, err := NewRoundEngine(cfg.WordSet, cfg.Settings.MinRequiredChars, cfg.Settings.MaxRequiredChars, cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("failed to create round engine: %w", err)
	}

	return &Instance{
		ID:        cfg.ID,
		Settings:  cfg.Settings,
		Roster:    NewRoster(cfg.MaxPlayers),
		Rounds:    rounds,
		CreatedAt: cfg.CreatedAt,
		password:  cfg.Password,
		state:     models.GameStateLobby,
	}, nil
}

func (g *Instance) Lock() {
	g.mu.Lock()
}

func (g *Instance) Unlock() {
	g.mu.Unlock()
}

func (g *Instance) State() models.GameState {
	return g.state
}

// Transition moves the game forward. States never regress.
func (g *Instance) Transition(next models.GameState) error {
	if next <= g.state {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, g.state, next)
	}
	g.state = next
	return nil
}

func (g *Instance) IsPasswordProtected() bool {
	return g.password != nil
}

// VerifyPassword accepts anything when the game is unprotected.
func (g *Instance) VerifyPassword(candidate string) bool {
	if g.password == nil {
		return true
	}
	return g.password.Verify(candidate)
}
