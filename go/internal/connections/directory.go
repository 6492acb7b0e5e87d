package connections

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/mcdev12/vocabversus/go/internal/cache"
	"github.com/mcdev12/vocabversus/go/internal/models"
)

const lockCount = 64

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionClosed   = errors.New("connection closed")
)

// Directory maps transient connection ids to the durable player behind them
// and the game they joined. Writes for one connection are serialized, and a
// closed connection's record can no longer be written.
type Directory struct {
	store cache.Store[models.ConnectionRecord]
	locks [lockCount]sync.Mutex
}

// NewDirectory creates a directory on top of an ephemeral store
func NewDirectory(store cache.Store[models.ConnectionRecord]) *Directory {
	return &Directory{store: store}
}

func (d *Directory) lock(connectionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(connectionID))
	mu := &d.locks[h.Sum32()%lockCount]
	mu.Lock()
	return mu.Unlock
}

// Register writes the record, refreshing its expiry.
func (d *Directory) Register(ctx context.Context, record models.ConnectionRecord) error {
	defer d.lock(record.ConnectionID)()

	existing, ok, err := d.retrieve(ctx, record.ConnectionID)
	if err != nil {
		return err
	}
	if ok && existing.Closed {
		return fmt.Errorf("register %s: %w", record.ConnectionID, ErrConnectionClosed)
	}
	return d.write(ctx, record)
}

// Get returns the record for connectionID, or false when absent, expired or closed.
func (d *Directory) Get(ctx context.Context, connectionID string) (models.ConnectionRecord, bool, error) {
	record, ok, err := d.retrieve(ctx, connectionID)
	if err != nil || !ok || record.Closed {
		return models.ConnectionRecord{}, false, err
	}
	return record, true, nil
}

// MarkJoined records that the connection is an active member of gameID.
func (d *Directory) MarkJoined(ctx context.Context, connectionID, gameID string) error {
	return d.update(ctx, connectionID, func(record *models.ConnectionRecord) {
		record.GameID = gameID
		record.Joined = true
	})
}

// Unbind detaches the connection from its game but keeps the player binding.
func (d *Directory) Unbind(ctx context.Context, connectionID string) error {
	return d.update(ctx, connectionID, func(record *models.ConnectionRecord) {
		record.GameID = ""
		record.Joined = false
	})
}

func (d *Directory) update(ctx context.Context, connectionID string, apply func(*models.ConnectionRecord)) error {
	defer d.lock(connectionID)()

	record, ok, err := d.retrieve(ctx, connectionID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("update %s: %w", connectionID, ErrConnectionNotFound)
	}
	if record.Closed {
		return fmt.Errorf("update %s: %w", connectionID, ErrConnectionClosed)
	}
	apply(&record)
	return d.write(ctx, record)
}

// Close marks the connection as gone and returns the record it had. Once
// closed, Register and updates for the connection fail, so a request still in
// flight cannot bind a dead connection to a game.
func (d *Directory) Close(ctx context.Context, connectionID string) (models.ConnectionRecord, bool, error) {
	defer d.lock(connectionID)()

	record, ok, err := d.retrieve(ctx, connectionID)
	if err != nil {
		return models.ConnectionRecord{}, false, err
	}
	if ok && record.Closed {
		return models.ConnectionRecord{}, false, nil
	}
	if err := d.write(ctx, models.ConnectionRecord{ConnectionID: connectionID, Closed: true}); err != nil {
		return models.ConnectionRecord{}, false, err
	}
	return record, ok, nil
}

func (d *Directory) retrieve(ctx context.Context, connectionID string) (models.ConnectionRecord, bool, error) {
	record, ok, err := d.store.Retrieve(ctx, connectionID)
	if err != nil {
		return models.ConnectionRecord{}, false, fmt.Errorf("failed to get connection: %w", err)
	}
	return record, ok, nil
}

func (d *Directory) write(ctx context.Context, record models.ConnectionRecord) error {
	if err := d.store.Register(ctx, record.ConnectionID, record); err != nil {
		return fmt.Errorf("failed to register connection: %w", err)
	}
	return nil
}
