package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres-backed ledger. The version column provides
// per-key optimistic concurrency: updates are conditional on (key, version)
// and a lost race surfaces as ErrVersionConflict instead of a silent
// overwrite.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) (*Entry, error) {
	var entry Entry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read ledger entry %s: %w", key, err)
	}
	return &entry, nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (*Entry, error) {
	if expectedVersion == 0 {
		entry := Entry{Key: key, Value: value, Version: 1}
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entry)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to create ledger entry %s: %w", key, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s already exists", ErrVersionConflict, key)
		}
		return &entry, nil
	}

	res := s.db.WithContext(ctx).Model(&Entry{}).
		Where("key = ? AND version = ?", key, expectedVersion).
		Updates(map[string]interface{}{
			"value":   value,
			"version": expectedVersion + 1,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update ledger entry %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s at version %d", ErrVersionConflict, key, expectedVersion)
	}

	var entry Entry
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		return nil, fmt.Errorf("failed to reload ledger entry %s: %w", key, err)
	}
	return &entry, nil
}
