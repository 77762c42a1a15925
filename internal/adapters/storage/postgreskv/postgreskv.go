// Package postgreskv backs the Storage port with a single key/value table.
package postgreskv

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/shopfront/internal/domain"
)

type Record struct {
	Key       string `gorm:"primaryKey;size:180"`
	Value     []byte `gorm:"type:bytea"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "kv_entries" }

type Store struct{ db *gorm.DB }

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrKeyMissing
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, UpdateAll: true}).
		Create(&rec).Error
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}
