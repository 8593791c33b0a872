// Package domain holds the catalog entities shared between layers.
package domain

import "time"

// CardType classifies a card product.
type CardType string

// Known card types.
const (
	TypeCredit  CardType = "credit"
	TypeDebit   CardType = "debit"
	TypeForex   CardType = "forex"
	TypePrepaid CardType = "prepaid"
)

// IsValid reports whether the card type is one of the known values.
func (t CardType) IsValid() bool {
	switch t {
	case TypeCredit, TypeDebit, TypeForex, TypePrepaid:
		return true
	}
	return false
}

// RewardsType classifies how a card pays back.
type RewardsType string

// Known rewards types.
const (
	RewardsCashback RewardsType = "cashback"
	RewardsPoints   RewardsType = "points"
	RewardsMiles    RewardsType = "miles"
)

// IsValid reports whether the rewards type is one of the known values.
func (t RewardsType) IsValid() bool {
	switch t {
	case RewardsCashback, RewardsPoints, RewardsMiles:
		return true
	}
	return false
}

// Card is a single catalog entry representing one financial product offering.
// features/benefits keep their stored order; eligibility/fees are open,
// schema-less sub-documents expanded from JSON columns on read.
type Card struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Issuer          string         `json:"issuer"`
	CardType        CardType       `json:"cardType"`
	Network         string         `json:"network"`
	AnnualFee       float64        `json:"annualFee"`
	JoiningFee      float64        `json:"joiningFee"`
	InterestRate    *float64       `json:"interestRate"`
	CashbackRate    *float64       `json:"cashbackRate"`
	RewardsRate     *float64       `json:"rewardsRate"`
	RewardsType     *RewardsType   `json:"rewardsType"`
	WelcomeBonus    *string        `json:"welcomeBonus"`
	Features        []string       `json:"features"`
	Benefits        []string       `json:"benefits"`
	Eligibility     map[string]any `json:"eligibility"`
	Fees            map[string]any `json:"fees"`
	ImageURL        *string        `json:"imageUrl"`
	CardColor       string         `json:"cardColor"`
	CardGradient    string         `json:"cardGradient"`
	Rating          float64        `json:"rating"`
	PopularityScore int            `json:"popularityScore"`
	IsPopular       bool           `json:"isPopular"`
	Highlight       *string        `json:"highlight"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// RewardRate returns the first non-nil of rewards rate and cashback rate,
// defaulting to 0. The same pick-first rule feeds the rewards sort and the
// chat context formatting, so it lives in exactly one place.
func (c *Card) RewardRate() float64 {
	if c.RewardsRate != nil {
		return *c.RewardsRate
	}
	if c.CashbackRate != nil {
		return *c.CashbackRate
	}
	return 0
}
