package common

import (
	"fmt"
	"time"
)

// Trade accounts for the two parties who matched.
type Trade struct {
	Buyer     *Order
	Seller    *Order
	Timestamp time.Time
	MatchQty  uint64
	Price     float64
}

// Amount is the cash value of the trade formatted to two decimals.
func (t Trade) Amount() string {
	return Amount(t.Price, t.MatchQty)
}

// Notices renders the buyer and seller confirmations, buyer first.
func (t Trade) Notices(symbol string) []Notice {
	price, amt := FormatMoney(t.Price), t.Amount()
	return []Notice{
		{
			Recipient: t.Buyer.Owner,
			Text:      fmt.Sprintf("You bought: %d %s at %s amt %s", t.MatchQty, symbol, price, amt),
		},
		{
			Recipient: t.Seller.Owner,
			Text:      fmt.Sprintf("You sold: %d %s at %s amt %s", t.MatchQty, symbol, price, amt),
		},
	}
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`Buyer:     [
%s]
Seller:    [
%s]
Timestamp: %v
MatchQty:  %d
Price:     %s`,
		t.Buyer.String(),
		t.Seller.String(),
		t.Timestamp.Format(time.RFC3339),
		t.MatchQty,
		FormatMoney(t.Price),
	)
}
