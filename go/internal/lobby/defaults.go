package lobby

import (
	"fmt"
	"os"

	"github.com/mcdev12/vocabversus/go/internal/models"
	"gopkg.in/yaml.v3"
)

const defaultMaxPlayers = 4

// Defaults are applied to creation requests that omit them
type Defaults struct {
	MaxPlayers int                 `yaml:"max_players"`
	Settings   models.GameSettings `yaml:"settings"`
}

// DefaultDefaults returns the built-in creation defaults
func DefaultDefaults() Defaults {
	return Defaults{
		MaxPlayers: defaultMaxPlayers,
		Settings:   models.DefaultGameSettings(),
	}
}

// LoadDefaults reads creation defaults from a YAML file. Keys missing from the
// file keep their built-in values.
func LoadDefaults(path string) (Defaults, error) {
	defaults := DefaultDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read game defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("failed to parse game defaults: %w", err)
	}
	if defaults.MaxPlayers < 1 {
		return defaults, fmt.Errorf("%w: max_players must be at least 1", ErrInvalidRequest)
	}
	return defaults, nil
}
