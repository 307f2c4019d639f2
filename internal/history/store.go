package history

import (
	"context"

	"gorm.io/gorm"
)

// Store records completed conversation exchanges. A nil db disables the
// store; Record and Recent become no-ops so the relay runs without a
// database configured.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

func (s *Store) Migrate() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.AutoMigrate(&Exchange{})
}

func (s *Store) Record(ctx context.Context, exc *Exchange) error {
	if !s.Enabled() {
		return nil
	}
	return s.db.WithContext(ctx).Create(exc).Error
}

func (s *Store) Recent(ctx context.Context, limit int) ([]*Exchange, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	var exchanges []*Exchange
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&exchanges).Error
	if err != nil {
		return nil, err
	}
	return exchanges, nil
}
