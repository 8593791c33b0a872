package card

import (
	"testing"

	"github.com/kailas-cloud/cardex/internal/db/sqlite"
	"github.com/kailas-cloud/cardex/internal/domain"
)

// newTestRepo creates a repository over a fresh in-memory catalog.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	store, err := sqlite.NewStore(sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("sqlite.NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store.DB())
}

// seedCard is a test row; zero values fall back to sensible column defaults
// in insertCard. Empty rewardsType/highlight insert as NULL.
type seedCard struct {
	id           string
	name         string
	slug         string
	issuer       string
	cardType     string
	network      string
	annualFee    float64
	cashbackRate *float64
	rewardsRate  *float64
	rewardsType  string
	highlight    string
	features     string
	benefits     string
	eligibility  string
	fees         string
	rating       float64
	popularity   int
	isPopular    bool
}

func insertCard(t *testing.T, repo *Repo, c seedCard) {
	t.Helper()

	if c.name == "" {
		c.name = "Card " + c.id
	}
	if c.slug == "" {
		c.slug = c.id
	}
	if c.issuer == "" {
		c.issuer = "Acme Bank"
	}
	if c.cardType == "" {
		c.cardType = "credit"
	}
	if c.network == "" {
		c.network = "Visa"
	}
	if c.features == "" {
		c.features = "[]"
	}
	if c.benefits == "" {
		c.benefits = "[]"
	}
	if c.eligibility == "" {
		c.eligibility = "{}"
	}
	if c.fees == "" {
		c.fees = "{}"
	}

	isPopular := 0
	if c.isPopular {
		isPopular = 1
	}

	_, err := repo.db.Exec(`INSERT INTO cards
(id, name, slug, issuer, card_type, network, annual_fee,
 cashback_rate, rewards_rate, rewards_type, highlight,
 features, benefits, eligibility, fees, rating, popularity_score, is_popular)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.id, c.name, c.slug, c.issuer, c.cardType, c.network, c.annualFee,
		nullable(c.cashbackRate), nullable(c.rewardsRate),
		nullableString(c.rewardsType), nullableString(c.highlight),
		c.features, c.benefits, c.eligibility, c.fees,
		c.rating, c.popularity, isPopular,
	)
	if err != nil {
		t.Fatalf("insert card %s: %v", c.id, err)
	}
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func ptr(f float64) *float64 { return &f }

func cardIDs(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
