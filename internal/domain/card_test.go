package domain

import "testing"

func TestRewardRate(t *testing.T) {
	rewards := 4.0
	cashback := 1.5

	tests := []struct {
		name string
		card Card
		want float64
	}{
		{"rewards rate wins", Card{RewardsRate: &rewards, CashbackRate: &cashback}, 4.0},
		{"cashback fallback", Card{CashbackRate: &cashback}, 1.5},
		{"neither set", Card{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.RewardRate(); got != tt.want {
				t.Errorf("RewardRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCardTypeIsValid(t *testing.T) {
	for _, ct := range []CardType{TypeCredit, TypeDebit, TypeForex, TypePrepaid} {
		if !ct.IsValid() {
			t.Errorf("expected %q to be valid", ct)
		}
	}
	if CardType("charge").IsValid() {
		t.Error("expected unknown card type to be invalid")
	}
}
