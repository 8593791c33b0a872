package card

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
)

func listQuery(q query.Query) query.Query {
	return query.Normalize(q, 0, 0)
}

func TestList_NoFilters(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", popularity: 10})
	insertCard(t, repo, seedCard{id: "b", popularity: 30})
	insertCard(t, repo, seedCard{id: "c", popularity: 20})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total=3, got %d", total)
	}
	want := []string{"b", "c", "a"} // popularity descending
	if !slices.Equal(cardIDs(cards), want) {
		t.Errorf("unexpected order: got %v, want %v", cardIDs(cards), want)
	}
}

func TestList_FilterSoundness(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", cardType: "credit", network: "Visa", issuer: "HDFC Bank", annualFee: 500, rewardsType: "points"})
	insertCard(t, repo, seedCard{id: "b", cardType: "credit", network: "Mastercard", issuer: "HDFC Bank", annualFee: 1500, rewardsType: "cashback"})
	insertCard(t, repo, seedCard{id: "c", cardType: "debit", network: "Visa", issuer: "ICICI Bank", annualFee: 0, rewardsType: "points"})
	insertCard(t, repo, seedCard{id: "d", cardType: "credit", network: "Visa", issuer: "HDFC Bank", annualFee: 999, rewardsType: "points"})

	q := listQuery(query.Query{
		CardType:    "credit",
		Network:     "Visa",
		Issuer:      "HDFC Bank",
		RewardsType: "points",
		MinFee:      ptr(100),
		MaxFee:      ptr(1000),
	})
	cards, total, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(cards) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(cards))
	}
	for _, c := range cards {
		if c.CardType != "credit" || c.Network != "Visa" || c.Issuer != "HDFC Bank" {
			t.Errorf("card %s violates equality filters", c.ID)
		}
		if c.AnnualFee < 100 || c.AnnualFee > 1000 {
			t.Errorf("card %s violates fee bounds: %v", c.ID, c.AnnualFee)
		}
		if c.RewardsType == nil || *c.RewardsType != domain.RewardsPoints {
			t.Errorf("card %s violates rewards type filter", c.ID)
		}
	}
}

func TestList_FeeBoundsInclusive(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "lo", annualFee: 100})
	insertCard(t, repo, seedCard{id: "hi", annualFee: 2000})
	insertCard(t, repo, seedCard{id: "out", annualFee: 2001})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{
		MinFee: ptr(100),
		MaxFee: ptr(2000),
	}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("expected inclusive bounds to match 2 cards, got %d", total)
	}
	got := cardIDs(cards)
	slices.Sort(got)
	if !slices.Equal(got, []string{"hi", "lo"}) {
		t.Errorf("unexpected matches: %v", got)
	}
}

func TestList_SearchSubstring(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "name", name: "Regalia Gold"})
	insertCard(t, repo, seedCard{id: "issuer", issuer: "Regal Finance"})
	insertCard(t, repo, seedCard{id: "highlight", highlight: "A truly regal experience"})
	insertCard(t, repo, seedCard{id: "miss", name: "Platinum", issuer: "Axis", highlight: "Lounge access"})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{Search: "REGAL"}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("expected case-insensitive match across 3 fields, got total=%d", total)
	}
	got := cardIDs(cards)
	slices.Sort(got)
	if !slices.Equal(got, []string{"highlight", "issuer", "name"}) {
		t.Errorf("unexpected matches: %v", got)
	}
}

func TestList_SearchNoMatch(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a"})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{Search: "zzzznonexistent"}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(cards) != 0 {
		t.Errorf("expected empty result, got total=%d len=%d", total, len(cards))
	}
}

func TestList_SearchLiteralWildcards(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "pct", name: "Save 100% Card"})
	insertCard(t, repo, seedCard{id: "plain", name: "Save 100 Rupees Card"})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{Search: "100%"}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(cards) != 1 || cards[0].ID != "pct" {
		t.Errorf("expected %% to match literally, got %v", cardIDs(cards))
	}
}

func TestList_SortLaws(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", name: "Delta", annualFee: 500, rating: 4.5, popularity: 50, rewardsRate: ptr(4)})
	insertCard(t, repo, seedCard{id: "b", name: "Alpha", annualFee: 0, rating: 3.2, popularity: 90, cashbackRate: ptr(2)})
	insertCard(t, repo, seedCard{id: "c", name: "Charlie", annualFee: 1500, rating: 4.9, popularity: 10})
	insertCard(t, repo, seedCard{id: "d", name: "Bravo", annualFee: 750, rating: 4.0, popularity: 70, rewardsRate: ptr(1)})

	ctx := context.Background()

	t.Run("fee_low non-decreasing", func(t *testing.T) {
		cards, _, err := repo.List(ctx, listQuery(query.Query{Sort: query.SortFeeLow}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for i := 1; i < len(cards); i++ {
			if cards[i].AnnualFee < cards[i-1].AnnualFee {
				t.Fatalf("fee_low not monotone at %d: %v", i, cardIDs(cards))
			}
		}
	})

	t.Run("fee_high non-increasing", func(t *testing.T) {
		cards, _, err := repo.List(ctx, listQuery(query.Query{Sort: query.SortFeeHigh}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for i := 1; i < len(cards); i++ {
			if cards[i].AnnualFee > cards[i-1].AnnualFee {
				t.Fatalf("fee_high not monotone at %d: %v", i, cardIDs(cards))
			}
		}
	})

	t.Run("rating non-increasing", func(t *testing.T) {
		cards, _, err := repo.List(ctx, listQuery(query.Query{Sort: query.SortRating}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for i := 1; i < len(cards); i++ {
			if cards[i].Rating > cards[i-1].Rating {
				t.Fatalf("rating not monotone at %d: %v", i, cardIDs(cards))
			}
		}
	})

	t.Run("name lexicographic", func(t *testing.T) {
		cards, _, err := repo.List(ctx, listQuery(query.Query{Sort: query.SortName}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := []string{"b", "d", "c", "a"} // Alpha, Bravo, Charlie, Delta
		if !slices.Equal(cardIDs(cards), want) {
			t.Errorf("unexpected name order: got %v, want %v", cardIDs(cards), want)
		}
	})

	t.Run("rewards picks first non-null rate", func(t *testing.T) {
		cards, _, err := repo.List(ctx, listQuery(query.Query{Sort: query.SortRewards}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		// a: rewards 4, b: cashback 2, d: rewards 1, c: no rate (0)
		want := []string{"a", "b", "d", "c"}
		if !slices.Equal(cardIDs(cards), want) {
			t.Errorf("unexpected rewards order: got %v, want %v", cardIDs(cards), want)
		}
	})
}

func TestList_FeeLowCreditScenario(t *testing.T) {
	repo := newTestRepo(t)
	fees := []float64{500, 0, 1000, 0, 1500}
	ids := []string{"c1", "c2", "c3", "c4", "c5"}
	for i, fee := range fees {
		insertCard(t, repo, seedCard{id: ids[i], cardType: "credit", annualFee: fee})
	}
	insertCard(t, repo, seedCard{id: "debit", cardType: "debit", annualFee: 0})

	q := listQuery(query.Query{CardType: "credit", Sort: query.SortFeeLow, Page: 1, Limit: 2})
	cards, total, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total=5, got %d", total)
	}
	// The two free cards come first; id breaks the tie.
	if !slices.Equal(cardIDs(cards), []string{"c2", "c4"}) {
		t.Errorf("expected the zero-fee cards first, got %v", cardIDs(cards))
	}
}

func TestList_PageBeyondEnd(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a"})
	insertCard(t, repo, seedCard{id: "b"})

	cards, total, err := repo.List(context.Background(), listQuery(query.Query{Page: 9, Limit: 2}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected empty page, got %v", cardIDs(cards))
	}
	if total != 2 {
		t.Errorf("expected true total=2, got %d", total)
	}
}

func TestList_PaginationReconstructsMatchingSet(t *testing.T) {
	repo := newTestRepo(t)
	all := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	for i, id := range all {
		insertCard(t, repo, seedCard{id: id, popularity: i * 3 % 7})
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		cards, total, err := repo.List(context.Background(),
			listQuery(query.Query{Sort: query.SortPopularity, Page: page, Limit: 3}))
		if err != nil {
			t.Fatalf("List page %d: %v", page, err)
		}
		if total != len(all) {
			t.Errorf("page %d: expected total=%d, got %d", page, len(all), total)
		}
		for _, c := range cards {
			if seen[c.ID] {
				t.Errorf("card %s returned twice", c.ID)
			}
			seen[c.ID] = true
		}
	}
	if len(seen) != len(all) {
		t.Errorf("expected all %d cards across pages, got %d", len(all), len(seen))
	}
}

func TestList_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", popularity: 5})
	insertCard(t, repo, seedCard{id: "b", popularity: 5})
	insertCard(t, repo, seedCard{id: "c", popularity: 1})

	q := listQuery(query.Query{Sort: query.SortPopularity, Limit: 2})
	first, firstTotal, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	second, secondTotal, err := repo.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if firstTotal != secondTotal || !slices.Equal(cardIDs(first), cardIDs(second)) {
		t.Errorf("repeated query diverged: %v/%d vs %v/%d",
			cardIDs(first), firstTotal, cardIDs(second), secondTotal)
	}
}

func TestGetBySlug(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", slug: "regalia-gold"})

	card, err := repo.GetBySlug(context.Background(), "regalia-gold")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if card.ID != "a" {
		t.Errorf("expected card a, got %s", card.ID)
	}

	_, err = repo.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByIDs(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a"})
	insertCard(t, repo, seedCard{id: "b"})
	insertCard(t, repo, seedCard{id: "c"})

	cards, err := repo.GetByIDs(context.Background(), []string{"a", "c", "ghost"})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	got := cardIDs(cards)
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("expected [a c], got %v", got)
	}

	empty, err := repo.GetByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetByIDs empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result for no ids, got %v", cardIDs(empty))
	}
}

func TestSimilar(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "ref", cardType: "forex", issuer: "Acme Bank", rewardsType: "miles"})
	insertCard(t, repo, seedCard{id: "type", cardType: "forex", issuer: "Other", popularity: 5})
	insertCard(t, repo, seedCard{id: "issuer", cardType: "debit", issuer: "Acme Bank", popularity: 50})
	insertCard(t, repo, seedCard{id: "rewards", cardType: "credit", issuer: "Other", rewardsType: "miles", popularity: 20})
	insertCard(t, repo, seedCard{id: "none", cardType: "prepaid", issuer: "Other", rewardsType: "points"})

	ref, err := repo.GetByID(context.Background(), "ref")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	cards, err := repo.Similar(context.Background(), ref, 4)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	want := []string{"issuer", "rewards", "type"} // popularity descending
	if !slices.Equal(cardIDs(cards), want) {
		t.Errorf("unexpected similar set: got %v, want %v", cardIDs(cards), want)
	}
}

func TestSimilar_NilRewardsTypeMatchesNothing(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "ref", cardType: "forex", issuer: "Acme Bank"})
	insertCard(t, repo, seedCard{id: "alsoNil", cardType: "credit", issuer: "Other"})

	ref, err := repo.GetByID(context.Background(), "ref")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	cards, err := repo.Similar(context.Background(), ref, 4)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("NULL rewards_type must not match another NULL, got %v", cardIDs(cards))
	}
}

func TestFeatured(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", isPopular: true, popularity: 10})
	insertCard(t, repo, seedCard{id: "b", isPopular: true, popularity: 90})
	insertCard(t, repo, seedCard{id: "c", isPopular: false, popularity: 100})

	cards, err := repo.Featured(context.Background(), 8)
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	if !slices.Equal(cardIDs(cards), []string{"b", "a"}) {
		t.Errorf("unexpected featured set: %v", cardIDs(cards))
	}
	for _, c := range cards {
		if !c.IsPopular {
			t.Errorf("card %s is not flagged popular", c.ID)
		}
	}
}

func TestIssuers(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", issuer: "ICICI Bank"})
	insertCard(t, repo, seedCard{id: "b", issuer: "Axis Bank"})
	insertCard(t, repo, seedCard{id: "c", issuer: "ICICI Bank"})

	issuers, err := repo.Issuers(context.Background())
	if err != nil {
		t.Fatalf("Issuers: %v", err)
	}
	if !slices.Equal(issuers, []string{"Axis Bank", "ICICI Bank"}) {
		t.Errorf("expected distinct sorted issuers, got %v", issuers)
	}
}

func TestSearch_IssuerRecall(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "h1", issuer: "HDFC Bank", popularity: 30})
	insertCard(t, repo, seedCard{id: "h2", issuer: "HDFC Bank", popularity: 90})
	insertCard(t, repo, seedCard{id: "h3", issuer: "HDFC Bank", popularity: 60})
	insertCard(t, repo, seedCard{id: "x1", issuer: "Axis Bank"})
	insertCard(t, repo, seedCard{id: "x2", issuer: "ICICI Bank"})

	cards, err := repo.Search(context.Background(), "hdfc", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !slices.Equal(cardIDs(cards), []string{"h2", "h3", "h1"}) {
		t.Errorf("expected the three HDFC cards by popularity, got %v", cardIDs(cards))
	}
}

func TestSearch_CaseVariedNameRecall(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "a", name: "Regalia Gold Credit Card"})

	cards, err := repo.Search(context.Background(), "ReGaLiA", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "a" {
		t.Errorf("expected case-varied substring recall, got %v", cardIDs(cards))
	}
}

func TestSearch_WiderFieldSetThanListFilter(t *testing.T) {
	repo := newTestRepo(t)
	insertCard(t, repo, seedCard{id: "type", cardType: "forex"})
	insertCard(t, repo, seedCard{id: "rewards", rewardsType: "miles"})
	insertCard(t, repo, seedCard{id: "miss"})

	ctx := context.Background()

	cards, err := repo.Search(ctx, "forex", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "type" {
		t.Errorf("expected card_type to be searchable, got %v", cardIDs(cards))
	}

	cards, err = repo.Search(ctx, "miles", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "rewards" {
		t.Errorf("expected rewards_type to be searchable, got %v", cardIDs(cards))
	}

	// The List search filter only spans name/issuer/highlight.
	_, total, err := repo.List(ctx, listQuery(query.Query{Search: "forex"}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Errorf("List search must not match card_type, got total=%d", total)
	}
}

func TestSearch_Limit(t *testing.T) {
	repo := newTestRepo(t)
	for i := 0; i < 10; i++ {
		insertCard(t, repo, seedCard{id: string(rune('a' + i)), issuer: "HDFC Bank", popularity: i})
	}

	cards, err := repo.Search(context.Background(), "hdfc", 8)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(cards) != 8 {
		t.Errorf("expected 8 results, got %d", len(cards))
	}
}
