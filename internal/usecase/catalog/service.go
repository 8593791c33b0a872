// Package catalog implements the card listing, detail, comparison, and
// selection use cases.
package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
)

// Selection limits when not overridden.
const (
	DefaultFeaturedLimit = 8
	DefaultSimilarLimit  = 4
	DefaultCompareLimit  = 4
)

// Page is one page of listing results plus the catalog-wide issuer list the
// filter UI needs.
type Page struct {
	Cards      []domain.Card
	Total      int
	Page       int
	TotalPages int
	Issuers    []string
}

// Service handles catalog reads.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
	featuredLimit   int
	similarLimit    int
	compareLimit    int
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{
		repo:          repo,
		featuredLimit: DefaultFeaturedLimit,
		similarLimit:  DefaultSimilarLimit,
		compareLimit:  DefaultCompareLimit,
	}
}

// WithPagination overrides the default and maximum page sizes.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	s.defaultPageSize = defaultSize
	s.maxPageSize = maxSize
	return s
}

// WithSelectionLimits overrides the featured, similar, and compare caps.
func (s *Service) WithSelectionLimits(featured, similar, compare int) *Service {
	if featured > 0 {
		s.featuredLimit = featured
	}
	if similar > 0 {
		s.similarLimit = similar
	}
	if compare > 0 {
		s.compareLimit = compare
	}
	return s
}

// List returns one page of cards matching the query. Total counts every
// match before pagination, and the issuer list always spans the whole
// catalog regardless of the current filter.
func (s *Service) List(ctx context.Context, q query.Query) (Page, error) {
	q = query.Normalize(q, s.defaultPageSize, s.maxPageSize)

	cards, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("list cards: %w", err)
	}

	issuers, err := s.repo.Issuers(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list issuers: %w", err)
	}

	return Page{
		Cards:      cards,
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, q.Limit),
		Issuers:    issuers,
	}, nil
}

// Get returns the card with the given slug.
func (s *Service) Get(ctx context.Context, slug string) (domain.Card, error) {
	card, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Card{}, fmt.Errorf("get card %q: %w", slug, err)
	}
	return card, nil
}

// Similar returns cards sharing the reference card's type, issuer, or
// rewards type, excluding the card itself.
func (s *Service) Similar(ctx context.Context, slug string) ([]domain.Card, error) {
	ref, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get reference card %q: %w", slug, err)
	}

	cards, err := s.repo.Similar(ctx, ref, s.similarLimit)
	if err != nil {
		return nil, fmt.Errorf("similar cards: %w", err)
	}
	return cards, nil
}

// Featured returns the promoted selection.
func (s *Service) Featured(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.repo.Featured(ctx, s.featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("featured cards: %w", err)
	}
	return cards, nil
}

// Compare returns the cards for a comparison selection. Duplicate ids are
// dropped and the selection is capped, mirroring the client-side bounded set.
func (s *Service) Compare(ctx context.Context, cardIDs []string) ([]domain.Card, error) {
	seen := make(map[string]bool, len(cardIDs))
	unique := make([]string, 0, len(cardIDs))
	for _, id := range cardIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
		if len(unique) == s.compareLimit {
			break
		}
	}

	cards, err := s.repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("compare cards: %w", err)
	}
	return cards, nil
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
