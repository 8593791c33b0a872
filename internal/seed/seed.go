// Package seed loads card fixtures from JSON and writes them into the
// catalog database.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// Record is one card entry in a seed file. Field names match the API's
// card serialization, so a seed file reads the same as an API response.
type Record struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Issuer          string              `json:"issuer"`
	CardType        domain.CardType     `json:"cardType"`
	Network         string              `json:"network"`
	AnnualFee       float64             `json:"annualFee"`
	JoiningFee      float64             `json:"joiningFee"`
	InterestRate    *float64            `json:"interestRate"`
	CashbackRate    *float64            `json:"cashbackRate"`
	RewardsRate     *float64            `json:"rewardsRate"`
	RewardsType     *domain.RewardsType `json:"rewardsType"`
	WelcomeBonus    *string             `json:"welcomeBonus"`
	Features        []string            `json:"features"`
	Benefits        []string            `json:"benefits"`
	Eligibility     map[string]any      `json:"eligibility"`
	Fees            map[string]any      `json:"fees"`
	ImageURL        *string             `json:"imageUrl"`
	CardColor       string              `json:"cardColor"`
	CardGradient    string              `json:"cardGradient"`
	Rating          float64             `json:"rating"`
	PopularityScore int                 `json:"popularityScore"`
	IsPopular       bool                `json:"isPopular"`
	Highlight       *string             `json:"highlight"`
}

// Load reads and validates a seed file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true
	}

	return records, nil
}

func validate(r Record) error {
	switch {
	case r.ID == "":
		return fmt.Errorf("id is required")
	case r.Name == "":
		return fmt.Errorf("name is required")
	case r.Slug == "":
		return fmt.Errorf("slug is required")
	case r.Issuer == "":
		return fmt.Errorf("issuer is required")
	case !r.CardType.IsValid():
		return fmt.Errorf("unknown card type %q", r.CardType)
	case r.Network == "":
		return fmt.Errorf("network is required")
	}
	if r.RewardsType != nil && !r.RewardsType.IsValid() {
		return fmt.Errorf("unknown rewards type %q", *r.RewardsType)
	}
	return nil
}

const upsertSQL = `
INSERT INTO cards (
  id, name, slug, issuer, card_type, network,
  annual_fee, joining_fee, interest_rate, cashback_rate, rewards_rate,
  rewards_type, welcome_bonus, features, benefits, eligibility, fees,
  image_url, card_color, card_gradient, rating, popularity_score,
  is_popular, highlight
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name = excluded.name,
  slug = excluded.slug,
  issuer = excluded.issuer,
  card_type = excluded.card_type,
  network = excluded.network,
  annual_fee = excluded.annual_fee,
  joining_fee = excluded.joining_fee,
  interest_rate = excluded.interest_rate,
  cashback_rate = excluded.cashback_rate,
  rewards_rate = excluded.rewards_rate,
  rewards_type = excluded.rewards_type,
  welcome_bonus = excluded.welcome_bonus,
  features = excluded.features,
  benefits = excluded.benefits,
  eligibility = excluded.eligibility,
  fees = excluded.fees,
  image_url = excluded.image_url,
  card_color = excluded.card_color,
  card_gradient = excluded.card_gradient,
  rating = excluded.rating,
  popularity_score = excluded.popularity_score,
  is_popular = excluded.is_popular,
  highlight = excluded.highlight,
  updated_at = datetime('now')`

// Apply upserts all records in one transaction. Re-running a seed updates
// existing rows in place.
func Apply(ctx context.Context, db *sql.DB, records []Record) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		args, err := upsertArgs(r)
		if err != nil {
			return 0, fmt.Errorf("record %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("upsert card %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return len(records), nil
}

func upsertArgs(r Record) ([]any, error) {
	features, err := marshalList(r.Features)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	benefits, err := marshalList(r.Benefits)
	if err != nil {
		return nil, fmt.Errorf("benefits: %w", err)
	}
	eligibility, err := marshalDoc(r.Eligibility)
	if err != nil {
		return nil, fmt.Errorf("eligibility: %w", err)
	}
	fees, err := marshalDoc(r.Fees)
	if err != nil {
		return nil, fmt.Errorf("fees: %w", err)
	}

	cardColor := r.CardColor
	if cardColor == "" {
		cardColor = "#1a1a2e"
	}
	cardGradient := r.CardGradient
	if cardGradient == "" {
		cardGradient = "linear-gradient(135deg, #1a1a2e 0%, #16213e 100%)"
	}
	rating := r.Rating
	if rating == 0 {
		rating = 4.0
	}

	var rewardsType any
	if r.RewardsType != nil {
		rewardsType = string(*r.RewardsType)
	}

	return []any{
		r.ID, r.Name, r.Slug, r.Issuer, string(r.CardType), r.Network,
		r.AnnualFee, r.JoiningFee, r.InterestRate, r.CashbackRate, r.RewardsRate,
		rewardsType, r.WelcomeBonus, features, benefits, eligibility, fees,
		r.ImageURL, cardColor, cardGradient, rating, r.PopularityScore,
		boolToInt(r.IsPopular), r.Highlight,
	}, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func marshalDoc(doc map[string]any) (string, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
