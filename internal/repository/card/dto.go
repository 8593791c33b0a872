package card

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/cardex/internal/domain"
)

// cardColumns is the select list every card query shares. Scan order in
// cardRow.scan must match.
const cardColumns = `id, name, slug, issuer, card_type, network,
annual_fee, joining_fee, interest_rate, cashback_rate, rewards_rate,
rewards_type, welcome_bonus, features, benefits, eligibility, fees,
image_url, card_color, card_gradient, rating, popularity_score, is_popular,
highlight, created_at, updated_at`

// cardRow mirrors the stored shape of one cards row: snake_case scalar
// columns plus four JSON-encoded text sub-documents.
type cardRow struct {
	id              string
	name            string
	slug            string
	issuer          string
	cardType        string
	network         string
	annualFee       float64
	joiningFee      float64
	interestRate    sql.NullFloat64
	cashbackRate    sql.NullFloat64
	rewardsRate     sql.NullFloat64
	rewardsType     sql.NullString
	welcomeBonus    sql.NullString
	features        sql.NullString
	benefits        sql.NullString
	eligibility     sql.NullString
	fees            sql.NullString
	imageURL        sql.NullString
	cardColor       string
	cardGradient    string
	rating          float64
	popularityScore int
	isPopular       int
	highlight       sql.NullString
	createdAt       string
	updatedAt       string
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *cardRow) scan(s scanner) error {
	return s.Scan(
		&r.id, &r.name, &r.slug, &r.issuer, &r.cardType, &r.network,
		&r.annualFee, &r.joiningFee, &r.interestRate, &r.cashbackRate, &r.rewardsRate,
		&r.rewardsType, &r.welcomeBonus, &r.features, &r.benefits, &r.eligibility, &r.fees,
		&r.imageURL, &r.cardColor, &r.cardGradient, &r.rating, &r.popularityScore, &r.isPopular,
		&r.highlight, &r.createdAt, &r.updatedAt,
	)
}

// toDomain projects the stored row into the caller-facing shape: JSON
// sub-documents expand with empty defaults for absent values, the 0/1 flag
// becomes a bool. Malformed stored JSON is an internal-consistency error;
// the catalog only ever stores what the seeder serialized.
func (r *cardRow) toDomain() (domain.Card, error) {
	features, err := parseStringList(r.features)
	if err != nil {
		return domain.Card{}, fmt.Errorf("%w: card %s features: %w", domain.ErrCardCorrupt, r.id, err)
	}
	benefits, err := parseStringList(r.benefits)
	if err != nil {
		return domain.Card{}, fmt.Errorf("%w: card %s benefits: %w", domain.ErrCardCorrupt, r.id, err)
	}
	eligibility, err := parseObject(r.eligibility)
	if err != nil {
		return domain.Card{}, fmt.Errorf("%w: card %s eligibility: %w", domain.ErrCardCorrupt, r.id, err)
	}
	fees, err := parseObject(r.fees)
	if err != nil {
		return domain.Card{}, fmt.Errorf("%w: card %s fees: %w", domain.ErrCardCorrupt, r.id, err)
	}

	var rewardsType *domain.RewardsType
	if r.rewardsType.Valid && r.rewardsType.String != "" {
		rt := domain.RewardsType(r.rewardsType.String)
		rewardsType = &rt
	}

	return domain.Card{
		ID:              r.id,
		Name:            r.name,
		Slug:            r.slug,
		Issuer:          r.issuer,
		CardType:        domain.CardType(r.cardType),
		Network:         r.network,
		AnnualFee:       r.annualFee,
		JoiningFee:      r.joiningFee,
		InterestRate:    nullFloat(r.interestRate),
		CashbackRate:    nullFloat(r.cashbackRate),
		RewardsRate:     nullFloat(r.rewardsRate),
		RewardsType:     rewardsType,
		WelcomeBonus:    nullString(r.welcomeBonus),
		Features:        features,
		Benefits:        benefits,
		Eligibility:     eligibility,
		Fees:            fees,
		ImageURL:        nullString(r.imageURL),
		CardColor:       r.cardColor,
		CardGradient:    r.cardGradient,
		Rating:          r.rating,
		PopularityScore: r.popularityScore,
		IsPopular:       r.isPopular == 1,
		Highlight:       nullString(r.highlight),
		CreatedAt:       parseTimestamp(r.createdAt),
		UpdatedAt:       parseTimestamp(r.updatedAt),
	}, nil
}

func parseStringList(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return []string{}, nil
	}
	list := []string{}
	if err := json.Unmarshal([]byte(v.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func parseObject(v sql.NullString) (map[string]any, error) {
	if !v.Valid || v.String == "" {
		return map[string]any{}, nil
	}
	obj := map[string]any{}
	if err := json.Unmarshal([]byte(v.String), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// parseTimestamp accepts both the sqlite datetime('now') format and RFC 3339
// (the seeder writes the latter). Unparseable text yields the zero time.
func parseTimestamp(v string) time.Time {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
