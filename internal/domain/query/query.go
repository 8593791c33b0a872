// Package query defines the normalized card listing query.
package query

// Pagination limits.
const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Sort is a result ordering strategy.
type Sort string

// Supported orderings.
const (
	SortPopularity Sort = "popularity"
	SortRating     Sort = "rating"
	SortFeeLow     Sort = "fee_low"
	SortFeeHigh    Sort = "fee_high"
	SortRewards    Sort = "rewards"
	SortName       Sort = "name"
)

// IsValid reports whether the sort is one of the supported orderings.
func (s Sort) IsValid() bool {
	switch s {
	case SortPopularity, SortRating, SortFeeLow, SortFeeHigh, SortRewards, SortName:
		return true
	}
	return false
}

// Query carries the filter, ordering, and pagination parameters of one card
// listing request. An empty filter field means "no constraint", never
// "match null". All supplied filters combine with AND; the search term is a
// case-insensitive substring match across name, issuer, and highlight.
type Query struct {
	CardType    string
	Network     string
	Issuer      string
	RewardsType string
	MinFee      *float64
	MaxFee      *float64
	Search      string
	Sort        Sort
	Page        int
	Limit       int
}

// Normalize coerces out-of-range paging and unknown sorts to safe values
// instead of rejecting: the catalog is a best-effort read-only query surface.
// defaultLimit/maxLimit <= 0 fall back to the package defaults.
func Normalize(q Query, defaultLimit, maxLimit int) Query {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if !q.Sort.IsValid() {
		q.Sort = SortPopularity
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// Offset returns the row offset implied by page and limit.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}
