// Package suggest implements the type-ahead card search.
package suggest

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Defaults for the type-ahead call site.
const (
	DefaultLimit   = 8
	MinQueryLength = 2
)

// Retriever is the keyword retrieval contract.
type Retriever interface {
	Search(ctx context.Context, text string, limit int) ([]domain.Card, error)
}

// Service handles type-ahead search suggestions.
type Service struct {
	retriever Retriever
	limit     int
}

// New creates a suggest service.
func New(retriever Retriever) *Service {
	return &Service{retriever: retriever, limit: DefaultLimit}
}

// WithLimit overrides the suggestion cap.
func (s *Service) WithLimit(limit int) *Service {
	if limit > 0 {
		s.limit = limit
	}
	return s
}

// Suggest returns up to the configured number of cards loosely matching the
// query. Queries shorter than two characters short-circuit to an empty
// result without touching the store.
func (s *Service) Suggest(ctx context.Context, q string) ([]domain.Card, error) {
	if len(q) < MinQueryLength {
		return []domain.Card{}, nil
	}

	cards, err := s.retriever.Search(ctx, q, s.limit)
	if err != nil {
		return nil, fmt.Errorf("suggest cards: %w", err)
	}
	return cards, nil
}
