// Package ledger is the key-addressed versioned store tax records live in.
// The processor reads and writes through the Store interface only; the
// backing implementation (postgres, or in-memory for tests) owns
// durability. Writes are check-and-set on the entry version, so two
// conflicting transitions on the same key cannot both commit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("ledger: key not found")

// ErrVersionConflict is returned by Put when the expected version does not
// match the stored one: either the key already exists on a create, or a
// concurrent writer committed first.
var ErrVersionConflict = errors.New("ledger: version conflict")

// Entry is one versioned ledger row. Value carries the serialized record.
type Entry struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     []byte    `gorm:"type:jsonb;not null" json:"value"`
	Version   int64     `gorm:"not null" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string { return "ledger_entries" }

// Key joins a plate and payable year into the composite ledger key.
func Key(plate string, yearPayable int) string {
	return fmt.Sprintf("%s-%d", plate, yearPayable)
}

// Store is the ledger contract consumed by the transaction processor.
//
// Put with expectedVersion 0 creates the entry and fails with
// ErrVersionConflict if the key already exists. Any other expectedVersion
// must equal the version read earlier; a mismatch fails the write without
// touching the stored entry.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (*Entry, error)
}
