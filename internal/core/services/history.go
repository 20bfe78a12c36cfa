package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes recorded conversions.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service. A nil store makes every
// call return domain.ErrHistoryUnavailable.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent conversions first. A limit <= 0 returns all.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryUnavailable
	}
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// Get retrieves a conversion record by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.ConversionRecord, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryUnavailable
	}
	if id == "" {
		return nil, fmt.Errorf("record id is required: %w", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// Clear removes all records.
func (s *HistoryService) Clear(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrHistoryUnavailable
	}
	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}
