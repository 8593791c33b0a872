package catalog

import (
	"context"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
)

// Repository defines the storage contract for catalog reads.
type Repository interface {
	List(ctx context.Context, q query.Query) ([]domain.Card, int, error)
	GetBySlug(ctx context.Context, slug string) (domain.Card, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Card, error)
	Similar(ctx context.Context, ref domain.Card, limit int) ([]domain.Card, error)
	Featured(ctx context.Context, limit int) ([]domain.Card, error)
	Issuers(ctx context.Context) ([]string, error)
}
