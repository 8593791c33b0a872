package query

import "testing"

func TestNormalize_Defaults(t *testing.T) {
	q := Normalize(Query{}, 0, 0)

	if q.Sort != SortPopularity {
		t.Errorf("expected default sort=popularity, got %q", q.Sort)
	}
	if q.Page != 1 {
		t.Errorf("expected page=1, got %d", q.Page)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("expected limit=%d, got %d", DefaultLimit, q.Limit)
	}
}

func TestNormalize_Coercion(t *testing.T) {
	tests := []struct {
		name      string
		in        Query
		wantPage  int
		wantLimit int
		wantSort  Sort
	}{
		{"negative page", Query{Page: -3, Limit: 10, Sort: SortName}, 1, 10, SortName},
		{"zero limit", Query{Page: 2, Limit: 0, Sort: SortRating}, 2, DefaultLimit, SortRating},
		{"negative limit", Query{Page: 1, Limit: -5, Sort: SortFeeLow}, 1, DefaultLimit, SortFeeLow},
		{"limit above max", Query{Page: 1, Limit: 9999, Sort: SortFeeHigh}, 1, MaxLimit, SortFeeHigh},
		{"unknown sort", Query{Page: 1, Limit: 12, Sort: "shiny"}, 1, 12, SortPopularity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, 0, 0)
			if got.Page != tt.wantPage {
				t.Errorf("page: got %d, want %d", got.Page, tt.wantPage)
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", got.Limit, tt.wantLimit)
			}
			if got.Sort != tt.wantSort {
				t.Errorf("sort: got %q, want %q", got.Sort, tt.wantSort)
			}
		})
	}
}

func TestNormalize_CustomLimits(t *testing.T) {
	q := Normalize(Query{Limit: 80}, 24, 50)
	if q.Limit != 50 {
		t.Errorf("expected limit clamped to 50, got %d", q.Limit)
	}

	q = Normalize(Query{}, 24, 50)
	if q.Limit != 24 {
		t.Errorf("expected default limit 24, got %d", q.Limit)
	}
}

func TestOffset(t *testing.T) {
	q := Normalize(Query{Page: 3, Limit: 12}, 0, 0)
	if q.Offset() != 24 {
		t.Errorf("expected offset 24, got %d", q.Offset())
	}
	q = Normalize(Query{}, 0, 0)
	if q.Offset() != 0 {
		t.Errorf("expected offset 0 on first page, got %d", q.Offset())
	}
}

func TestSortIsValid(t *testing.T) {
	for _, s := range []Sort{SortPopularity, SortRating, SortFeeLow, SortFeeHigh, SortRewards, SortName} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Sort("fee").IsValid() {
		t.Error("expected unknown sort to be invalid")
	}
}
