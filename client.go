package cardex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/cardex/internal/db/sqlite"
	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
	cardrepo "github.com/kailas-cloud/cardex/internal/repository/card"
	"github.com/kailas-cloud/cardex/internal/seed"
	cataloguc "github.com/kailas-cloud/cardex/internal/usecase/catalog"
	chatuc "github.com/kailas-cloud/cardex/internal/usecase/chat"
	suggestuc "github.com/kailas-cloud/cardex/internal/usecase/suggest"
)

// Re-exported catalog types, so SDK users never import internal packages.
type (
	// Card is a single catalog entry.
	Card = domain.Card
	// CardType classifies a card product.
	CardType = domain.CardType
	// RewardsType classifies how a card pays back.
	RewardsType = domain.RewardsType
	// Query filters, sorts, and paginates a listing.
	Query = query.Query
	// Sort is a listing sort order.
	Sort = query.Sort
	// Page is one page of listing results.
	Page = cataloguc.Page
	// ChatMessage is one turn of an advisor conversation.
	ChatMessage = domain.ChatMessage
	// Completer streams chat completions; implemented by the transport
	// layer's OpenAI-compatible client.
	Completer = chatuc.Completer
	// SeedRecord is one card entry in a seed file.
	SeedRecord = seed.Record
)

// Listing sort orders.
const (
	SortPopularity = query.SortPopularity
	SortRating     = query.SortRating
	SortFeeLow     = query.SortFeeLow
	SortFeeHigh    = query.SortFeeHigh
	SortRewards    = query.SortRewards
	SortName       = query.SortName
)

// Sentinel errors surfaced by the client.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrChatNotConfigured = domain.ErrChatNotConfigured
)

// Client is the cardex SDK entry point: an embedded card catalog over a
// local SQLite file.
type Client struct {
	store     *sqlite.Store
	catalog   *cataloguc.Service
	suggest   *suggestuc.Service
	chat      *chatuc.Service
	readWrite bool
}

// New opens the catalog database and wires the query services.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.path == "" {
		return nil, errors.New("cardex: database path required (use WithDatabase)")
	}

	store, err := sqlite.NewStore(sqlite.Config{
		Path:          cfg.path,
		ReadOnly:      !cfg.readWrite,
		BusyTimeoutMS: cfg.busyTimeoutMS,
		MaxOpenConns:  cfg.maxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("cardex: open database: %w", err)
	}

	repo := cardrepo.New(store.DB())

	catalog := cataloguc.New(repo).
		WithPagination(cfg.defaultPageSize, cfg.maxPageSize).
		WithSelectionLimits(cfg.featuredLimit, cfg.similarLimit, cfg.compareLimit)
	sugg := suggestuc.New(repo)
	if cfg.suggestLimit > 0 {
		sugg = sugg.WithLimit(cfg.suggestLimit)
	}

	var chat *chatuc.Service
	if cfg.completer != nil {
		chat = chatuc.New(cfg.completer, repo)
		if cfg.contextCards > 0 {
			chat = chat.WithContextCards(cfg.contextCards)
		}
	}

	return &Client{
		store:     store,
		catalog:   catalog,
		suggest:   sugg,
		chat:      chat,
		readWrite: cfg.readWrite,
	}, nil
}

// Close releases the database handle.
func (c *Client) Close() error {
	return c.store.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// List returns one page of cards matching the query, plus the total match
// count and the catalog-wide issuer list.
func (c *Client) List(ctx context.Context, q Query) (Page, error) {
	return c.catalog.List(ctx, q)
}

// Get returns the card with the given slug, or ErrNotFound.
func (c *Client) Get(ctx context.Context, slug string) (Card, error) {
	return c.catalog.Get(ctx, slug)
}

// Compare returns the cards for a comparison selection by id. Duplicates
// are dropped and the selection is capped.
func (c *Client) Compare(ctx context.Context, ids []string) ([]Card, error) {
	return c.catalog.Compare(ctx, ids)
}

// Similar returns cards sharing the reference card's type, issuer, or
// rewards type.
func (c *Client) Similar(ctx context.Context, slug string) ([]Card, error) {
	return c.catalog.Similar(ctx, slug)
}

// Featured returns the promoted selection.
func (c *Client) Featured(ctx context.Context) ([]Card, error) {
	return c.catalog.Featured(ctx)
}

// Suggest returns type-ahead matches for a query. Queries shorter than two
// characters return an empty result.
func (c *Client) Suggest(ctx context.Context, q string) ([]Card, error) {
	return c.suggest.Suggest(ctx, q)
}

// Chat runs one catalog-grounded completion turn, forwarding streamed
// deltas to onDelta. Requires WithCompleter.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, onDelta func(string) error) error {
	if c.chat == nil {
		return ErrChatNotConfigured
	}
	return c.chat.Stream(ctx, messages, onDelta)
}

// Seed upserts card records into the catalog. Requires WithReadWrite.
func (c *Client) Seed(ctx context.Context, records []SeedRecord) (int, error) {
	if !c.readWrite {
		return 0, errors.New("cardex: seeding requires WithReadWrite")
	}
	return seed.Apply(ctx, c.store.DB(), records)
}

// LoadSeed reads and validates a seed file.
func LoadSeed(path string) ([]SeedRecord, error) {
	return seed.Load(path)
}
