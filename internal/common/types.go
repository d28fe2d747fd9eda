package common

import (
	"fmt"
	"strings"
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// UnmarshalText accepts "buy" or "sell" in any case.
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "buy":
		*s = Buy
	case "sell":
		*s = Sell
	default:
		return fmt.Errorf("%w: side %q", ErrMalformedOrder, text)
	}
	return nil
}

type OrderType int

const (
	// Limit orders are an order to buy or sell a security at a specified
	// price or better. Limit orders may rest on the order book until
	// filled.
	LimitOrder OrderType = iota
	// Market orders are instructions to buy or sell immediately at
	// whatever price the opposite side offers. A market order always
	// ranks ahead of limit orders on its side of the book.
	MarketOrder
)

func (t OrderType) String() string {
	switch t {
	case LimitOrder:
		return "limit"
	case MarketOrder:
		return "market"
	}
	return fmt.Sprintf("OrderType(%d)", int(t))
}

// UnmarshalText accepts "limit" or "market" in any case.
func (t *OrderType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "limit":
		*t = LimitOrder
	case "market":
		*t = MarketOrder
	default:
		return fmt.Errorf("%w: order type %q", ErrMalformedOrder, text)
	}
	return nil
}
