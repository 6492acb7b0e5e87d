package lobby

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/game"
	"github.com/mcdev12/vocabversus/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidRequest     = errors.New("invalid create game request")
	ErrInfeasibleSettings = errors.New("word set cannot serve the requested settings")
)

// WordSetProvider resolves word sets by id
type WordSetProvider interface {
	GetWordSet(ctx context.Context, id uuid.UUID) (*models.WordSet, error)
}

// App creates game instances
type App struct {
	games    cache.Store[*game.Instance]
	wordSets WordSetProvider
	defaults Defaults
	clock    clockwork.Clock
	newID    func() string
}

// NewApp creates a new lobby App
func NewApp(games cache.Store[*game.Instance], wordSets WordSetProvider, defaults Defaults, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		games:    games,
		wordSets: wordSets,
		defaults: defaults,
		clock:    clock,
		newID:    newGameID,
	}
}

// CreateGame validates the request, resolves its word set and registers a new
// instance in the Lobby state under a fresh short id.
func (a *App) CreateGame(ctx context.Context, req CreateGameRequest) (string, error) {
	maxPlayers, settings, err := a.resolveRequest(req)
	if err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	wordSet, err := a.wordSets.GetWordSet(ctx, req.WordSetID)
	if err != nil {
		return "", fmt.Errorf("failed to get word set: %w", err)
	}

	var password *game.Password
	if req.Password != "" {
		password, err = game.HashPassword(req.Password)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
	}

	gameID, err := cache.RegisterNew(ctx, a.games, a.newID, func(id string) (*game.Instance, error) {
		return game.NewInstance(game.InstanceConfig{
			ID:         id,
			WordSet:    *wordSet,
			MaxPlayers: maxPlayers,
			Settings:   settings,
			Password:   password,
			CreatedAt:  a.clock.Now(),
		})
	})
	if err != nil {
		if errors.Is(err, game.ErrInvalidRoundSettings) {
			return "", fmt.Errorf("%w: %v", ErrInfeasibleSettings, err)
		}
		return "", fmt.Errorf("failed to register game: %w", err)
	}

	log.Info().
		Str("game_id", gameID).
		Str("word_set_id", wordSet.ID.String()).
		Int("max_players", maxPlayers).
		Bool("password_protected", password != nil).
		Msg("game created")

	return gameID, nil
}

func (a *App) resolveRequest(req CreateGameRequest) (int, models.GameSettings, error) {
	if req.WordSetID == uuid.Nil {
		return 0, models.GameSettings{}, fmt.Errorf("%w: word_set_id is required", ErrInvalidRequest)
	}

	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = a.defaults.MaxPlayers
	}
	if maxPlayers < 1 {
		return 0, models.GameSettings{}, fmt.Errorf("%w: max_players must be at least 1", ErrInvalidRequest)
	}

	settings := a.defaults.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	if settings.RoundEndDelaySec < 0 {
		return 0, models.GameSettings{}, fmt.Errorf("%w: round_end_delay_sec cannot be negative", ErrInvalidRequest)
	}
	if settings.IncorrectCharsMargin < 0 {
		return 0, models.GameSettings{}, fmt.Errorf("%w: incorrect_chars_margin cannot be negative", ErrInvalidRequest)
	}

	return maxPlayers, settings, nil
}

func newGameID() string {
	return uuid.New().String()[:8]
}
