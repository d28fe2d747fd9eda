package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLimit() Order {
	return NewOrder("alice", "GGGL", Buy, LimitOrder, 123, 123.45)
}

func TestNewOrder(t *testing.T) {
	o := validLimit()

	assert.NotEmpty(t, o.UUID)
	assert.Equal(t, "alice", o.Owner)
	assert.Equal(t, "GGGL", o.Ticker)
	assert.True(t, o.IsBuy())
	assert.False(t, o.IsSell())
	assert.True(t, o.IsLimit())
	assert.False(t, o.IsMarket())
	assert.Equal(t, uint64(123), o.Quantity)
	assert.Equal(t, uint64(123), o.TotalQuantity)
	assert.Equal(t, 123.45, o.LimitPrice)
	assert.False(t, o.Timestamp.IsZero())

	other := validLimit()
	assert.NotEqual(t, o.UUID, other.UUID, "each order gets its own uuid")
}

func TestSubtractShares(t *testing.T) {
	o := validLimit()

	require.NoError(t, o.SubtractShares(24))
	assert.Equal(t, uint64(99), o.Quantity)
	assert.Equal(t, uint64(123), o.TotalQuantity)

	require.NoError(t, o.SubtractShares(99))
	assert.Equal(t, uint64(0), o.Quantity)
}

func TestSubtractShares_TooMany(t *testing.T) {
	o := validLimit()

	err := o.SubtractShares(124)
	assert.ErrorIs(t, err, ErrInsufficientShares)
	assert.Equal(t, uint64(123), o.Quantity, "a failed subtraction must not clamp")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Order)
		ok     bool
	}{
		{"valid limit", func(o *Order) {}, true},
		{"zero price limit", func(o *Order) { o.LimitPrice = 0 }, true},
		{"market ignores price", func(o *Order) { o.OrderType = MarketOrder; o.LimitPrice = -1 }, true},
		{"zero quantity", func(o *Order) { o.Quantity = 0 }, false},
		{"negative price", func(o *Order) { o.LimitPrice = -0.01 }, false},
		{"nan price", func(o *Order) { o.LimitPrice = math.NaN() }, false},
		{"infinite price", func(o *Order) { o.LimitPrice = math.Inf(1) }, false},
		{"max price", func(o *Order) { o.LimitPrice = MaxPrice }, true},
		{"price above max", func(o *Order) { o.LimitPrice = 1e17 }, false},
		{"max quantity", func(o *Order) { o.Quantity = MaxQuantity }, true},
		{"quantity above max", func(o *Order) { o.Quantity = MaxQuantity + 1 }, false},
		{"quantity above int64", func(o *Order) { o.Quantity = math.MaxInt64 + 10 }, false},
		{"no owner", func(o *Order) { o.Owner = "" }, false},
		{"no ticker", func(o *Order) { o.Ticker = "" }, false},
		{"unknown side", func(o *Order) { o.Side = Side(7) }, false},
		{"unknown type", func(o *Order) { o.OrderType = OrderType(7) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validLimit()
			tt.mutate(&o)
			err := o.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedOrder)
			}
		})
	}
}

func TestSideAndTypeText(t *testing.T) {
	var s Side
	require.NoError(t, s.UnmarshalText([]byte("SELL")))
	assert.Equal(t, Sell, s)
	require.NoError(t, s.UnmarshalText([]byte(" buy ")))
	assert.Equal(t, Buy, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("hold")), ErrMalformedOrder)

	var ot OrderType
	require.NoError(t, ot.UnmarshalText([]byte("Market")))
	assert.Equal(t, MarketOrder, ot)
	require.NoError(t, ot.UnmarshalText([]byte("limit")))
	assert.Equal(t, LimitOrder, ot)
	assert.ErrorIs(t, ot.UnmarshalText([]byte("stop")), ErrMalformedOrder)

	assert.Equal(t, "Buy", Buy.String())
	assert.Equal(t, "Sell", Sell.String())
	assert.Equal(t, "market", MarketOrder.String())
	assert.Equal(t, "limit", LimitOrder.String())
}

func TestOrderString(t *testing.T) {
	s := validLimit().String()
	assert.Contains(t, s, "Owner:         alice")
	assert.Contains(t, s, "LimitPrice:    123.45")
	assert.Contains(t, s, "Quantity:      123 (Total: 123)")
}
