package dca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testEff() Effective {
	return Effective{
		BuyActivationPct:  0.02,
		SellActivationPct: 0.02,
		ReboundPct:        0.01,
		PullbackPct:       0.01,
		OrderType:         Limit,
	}
}

func TestSellStopTrailsUpOnly(t *testing.T) {
	t.Parallel()
	eff := testEff()

	s := stopState{side: Sell}
	s.activate(98, 100, 89, eff)

	o, ok := s.Order()
	assert.True(t, ok)
	assert.InDelta(t, 98*0.99, o.Trigger, 1e-9)
	assert.InDelta(t, 100.0, o.Reference, 1e-9)
	assert.InDelta(t, 89.0, o.LimitRef, 1e-9)

	// Price below the tracked peak leaves the trigger alone.
	s.update(99, eff)
	o, _ = s.Order()
	assert.InDelta(t, 98*0.99, o.Trigger, 1e-9)

	// A new peak drags the trigger up.
	s.update(101, eff)
	o, _ = s.Order()
	assert.InDelta(t, 101*0.99, o.Trigger, 1e-9)
	assert.InDelta(t, 101.0, o.Reference, 1e-9)

	assert.True(t, s.triggered(99.5))
	assert.False(t, s.triggered(100.5))
}

func TestBuyStopTrailsDownOnly(t *testing.T) {
	t.Parallel()
	eff := testEff()

	s := stopState{side: Buy}
	s.activate(87.5, 100, 85, eff)

	o, _ := s.Order()
	assert.InDelta(t, 87.5*1.01, o.Trigger, 1e-9)
	assert.InDelta(t, 85.0, o.Reference, 1e-9)
	assert.InDelta(t, 100.0, o.LimitRef, 1e-9)

	// A new bottom pulls the trigger down.
	s.update(84, eff)
	o, _ = s.Order()
	assert.InDelta(t, 84*1.01, o.Trigger, 1e-9)

	// Recovery never loosens it back.
	s.update(86, eff)
	o, _ = s.Order()
	assert.InDelta(t, 84*1.01, o.Trigger, 1e-9)

	assert.True(t, s.triggered(85))
	assert.False(t, s.triggered(84.5))
}

func TestLimitOrderCancelBounds(t *testing.T) {
	t.Parallel()
	eff := testEff()

	buy := stopState{side: Buy}
	buy.activate(87.5, 100, 85, eff)
	assert.False(t, buy.shouldCancel(99))
	assert.True(t, buy.shouldCancel(101), "buy limit dies past the activation peak")

	sell := stopState{side: Sell}
	sell.activate(98, 100, 89, eff)
	assert.False(t, sell.shouldCancel(90))
	assert.True(t, sell.shouldCancel(88), "sell limit dies past the activation bottom")
}

func TestMarketOrdersNeverCancel(t *testing.T) {
	t.Parallel()
	eff := testEff()
	eff.OrderType = Market

	s := stopState{side: Buy}
	s.activate(87.5, 100, 85, eff)
	assert.False(t, s.shouldCancel(150))
}

func TestShouldActivateDistances(t *testing.T) {
	t.Parallel()
	eff := testEff()

	tests := []struct {
		name  string
		side  Side
		price float64
		want  bool
	}{
		{"buy needs 2% rebound off bottom", Buy, 86.0, false},
		{"buy arms at the threshold", Buy, 86.7, true},
		{"sell needs 2% pullback off peak", Sell, 98.5, false},
		{"sell arms at the threshold", Sell, 98.0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stopState{side: tt.side}
			assert.Equal(t, tt.want, s.shouldActivate(tt.price, 100, 85, eff))
		})
	}
}

func TestActiveStopDoesNotRearm(t *testing.T) {
	t.Parallel()
	eff := testEff()

	s := stopState{side: Sell}
	s.activate(98, 100, 89, eff)
	assert.False(t, s.shouldActivate(97, 100, 89, eff))

	s.cancel()
	assert.False(t, s.Active())
	assert.True(t, s.shouldActivate(97, 100, 89, eff))
}
