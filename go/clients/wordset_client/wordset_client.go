package wordset_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/mcdev12/vocabversus/go/clients"
	"github.com/mcdev12/vocabversus/go/internal/models"
)

var ErrWordSetNotFound = errors.New("word set not found")

// WordSetClient talks to the remote word-set service
type WordSetClient struct {
	*clients.BaseClient
}

func NewWordSetClient(baseURL string) *WordSetClient {
	client := &WordSetClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Accept", "application/json")

	return client
}

type wordSetResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Words []string  `json:"words"`
}

type evaluateResponse struct {
	HasMatch bool `json:"hasMatch"`
}

// GetWordSet fetches a word set with its words
func (c *WordSetClient) GetWordSet(ctx context.Context, id uuid.UUID) (*models.WordSet, error) {
	query := url.Values{}
	query.Set("wordSetId", id.String())
	query.Add("fields", "Id")
	query.Add("fields", "Name")
	query.Add("fields", "Words")

	body, err := c.Get(ctx, WordSetEndpoint+"?"+query.Encode())
	if err != nil {
		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrWordSetNotFound, id)
		}
		return nil, fmt.Errorf("failed to get word set: %w", err)
	}

	var response wordSetResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &models.WordSet{
		ID:    response.ID,
		Name:  response.Name,
		Words: response.Words,
	}, nil
}

// EvaluateWord asks the service whether word matches the set within fuzzyChars edits
func (c *WordSetClient) EvaluateWord(ctx context.Context, wordSetID uuid.UUID, word string, fuzzyChars int) (bool, error) {
	query := url.Values{}
	query.Set("wordSetId", wordSetID.String())
	query.Set("word", word)
	query.Set("fuzzyChars", strconv.Itoa(fuzzyChars))

	body, err := c.Get(ctx, EvaluateEndpoint+"?"+query.Encode())
	if err != nil {
		return false, fmt.Errorf("failed to evaluate word: %w", err)
	}

	var response evaluateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return response.HasMatch, nil
}
