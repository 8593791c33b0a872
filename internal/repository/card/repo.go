// Package card implements the catalog query engine and keyword retriever
// over the SQLite store.
package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
)

// Repo executes read queries against the cards table.
type Repo struct {
	db *sql.DB
}

// New creates a card repository over an open database handle.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// List returns one page of cards matching the query plus the total match
// count before pagination.
func (r *Repo) List(ctx context.Context, q query.Query) ([]domain.Card, int, error) {
	where, args := buildFilter(q)

	var total int
	countSQL := "SELECT COUNT(*) FROM cards" + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	pageSQL := fmt.Sprintf(
		"SELECT %s FROM cards%s ORDER BY %s LIMIT ? OFFSET ?",
		cardColumns, where, orderClause(q.Sort),
	)
	pageArgs := append(args, q.Limit, q.Offset())

	cards, err := r.queryCards(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// GetBySlug returns a single card by its URL slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domain.Card, error) {
	return r.getOne(ctx, "slug", slug)
}

// GetByID returns a single card by id.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Card, error) {
	return r.getOne(ctx, "id", id)
}

func (r *Repo) getOne(ctx context.Context, column, value string) (domain.Card, error) {
	q := fmt.Sprintf("SELECT %s FROM cards WHERE %s = ?", cardColumns, column)

	var row cardRow
	if err := row.scan(r.db.QueryRowContext(ctx, q, value)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Card{}, domain.ErrNotFound
		}
		return domain.Card{}, fmt.Errorf("get card by %s: %w", column, err)
	}
	return row.toDomain()
}

// GetByIDs returns the cards for a comparison selection, in stored order.
// Unknown ids are silently skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []string) ([]domain.Card, error) {
	if len(ids) == 0 {
		return []domain.Card{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	q := fmt.Sprintf("SELECT %s FROM cards WHERE id IN (%s)", cardColumns, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryCards(ctx, q, args...)
}

// Similar returns up to limit other cards sharing the reference card's type,
// issuer, or rewards type. A plain OR filter ordered by popularity; a card
// matching more dimensions is not ranked higher.
func (r *Repo) Similar(ctx context.Context, ref domain.Card, limit int) ([]domain.Card, error) {
	q := fmt.Sprintf(`SELECT %s FROM cards
WHERE id != ? AND (card_type = ? OR issuer = ? OR rewards_type = ?)
ORDER BY popularity_score DESC, id ASC LIMIT ?`, cardColumns)

	// A nil rewards type compares as SQL NULL and matches nothing.
	var rewardsType any
	if ref.RewardsType != nil {
		rewardsType = string(*ref.RewardsType)
	}
	return r.queryCards(ctx, q, ref.ID, string(ref.CardType), ref.Issuer, rewardsType, limit)
}

// Featured returns up to limit cards flagged popular, most popular first.
func (r *Repo) Featured(ctx context.Context, limit int) ([]domain.Card, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM cards WHERE is_popular = 1 ORDER BY popularity_score DESC, id ASC LIMIT ?",
		cardColumns,
	)
	return r.queryCards(ctx, q, limit)
}

// Issuers returns the distinct sorted issuer names across the whole catalog.
func (r *Repo) Issuers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT issuer FROM cards ORDER BY issuer")
	if err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
	defer rows.Close()

	issuers := []string{}
	for rows.Next() {
		var issuer string
		if err := rows.Scan(&issuer); err != nil {
			return nil, fmt.Errorf("scan issuer: %w", err)
		}
		issuers = append(issuers, issuer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issuers: %w", err)
	}
	return issuers, nil
}

// Search is the keyword retriever: a case-insensitive substring match across
// name, issuer, highlight, card_type, and rewards_type. The field set is
// wider than List's search filter to maximize recall for type-ahead and
// chat grounding. Always ordered by popularity.
func (r *Repo) Search(ctx context.Context, text string, limit int) ([]domain.Card, error) {
	pattern := "%" + escapeLike(text) + "%"
	q := fmt.Sprintf(`SELECT %s FROM cards
WHERE name LIKE ? ESCAPE '\'
   OR issuer LIKE ? ESCAPE '\'
   OR highlight LIKE ? ESCAPE '\'
   OR card_type LIKE ? ESCAPE '\'
   OR rewards_type LIKE ? ESCAPE '\'
ORDER BY popularity_score DESC, id ASC LIMIT ?`, cardColumns)

	return r.queryCards(ctx, q, pattern, pattern, pattern, pattern, pattern, limit)
}

func (r *Repo) queryCards(ctx context.Context, q string, args ...any) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var row cardRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// buildFilter composes the AND-combined WHERE clause for List. An absent
// filter contributes no predicate.
func buildFilter(q query.Query) (string, []any) {
	conditions := []string{}
	args := []any{}

	if q.CardType != "" {
		conditions = append(conditions, "card_type = ?")
		args = append(args, q.CardType)
	}
	if q.Network != "" {
		conditions = append(conditions, "network = ?")
		args = append(args, q.Network)
	}
	if q.Issuer != "" {
		conditions = append(conditions, "issuer = ?")
		args = append(args, q.Issuer)
	}
	if q.MinFee != nil {
		conditions = append(conditions, "annual_fee >= ?")
		args = append(args, *q.MinFee)
	}
	if q.MaxFee != nil {
		conditions = append(conditions, "annual_fee <= ?")
		args = append(args, *q.MaxFee)
	}
	if q.RewardsType != "" {
		conditions = append(conditions, "rewards_type = ?")
		args = append(args, q.RewardsType)
	}
	if q.Search != "" {
		conditions = append(conditions,
			`(name LIKE ? ESCAPE '\' OR issuer LIKE ? ESCAPE '\' OR highlight LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(q.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause maps a sort to its ORDER BY expression. Every ordering carries
// a secondary id tie-break so pagination stays stable across calls.
func orderClause(s query.Sort) string {
	switch s {
	case query.SortRating:
		return "rating DESC, id ASC"
	case query.SortFeeLow:
		return "annual_fee ASC, id ASC"
	case query.SortFeeHigh:
		return "annual_fee DESC, id ASC"
	case query.SortRewards:
		return "COALESCE(rewards_rate, cashback_rate, 0) DESC, id ASC"
	case query.SortName:
		return "name ASC, id ASC"
	default:
		return "popularity_score DESC, id ASC"
	}
}

// escapeLike makes the search text match as a literal substring inside a
// LIKE pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
