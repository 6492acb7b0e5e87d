package clients

import "fmt"

// WordSetSource selects where word sets and word evaluations come from
type WordSetSource string

const (
	// WordSetSourceAPI uses the remote word-set service
	WordSetSourceAPI WordSetSource = "api"

	// WordSetSourceCatalog uses a local YAML catalog
	WordSetSourceCatalog WordSetSource = "catalog"
)

// ParseWordSetSource validates a configured source name
func ParseWordSetSource(s string) (WordSetSource, error) {
	switch source := WordSetSource(s); source {
	case WordSetSourceAPI, WordSetSourceCatalog:
		return source, nil
	default:
		return "", fmt.Errorf("unknown word set source %q", s)
	}
}
