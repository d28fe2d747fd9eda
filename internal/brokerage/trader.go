package brokerage

import (
	"strings"
	"sync"

	. "safetrade/internal/common"
)

// Trader is a brokerage account with a mailbox of pending messages.
type Trader struct {
	brokerage *Brokerage
	name      string
	password  string

	mu      sync.Mutex
	mailbox []string
}

func newTrader(b *Brokerage, name, password string) *Trader {
	return &Trader{brokerage: b, name: name, password: password}
}

func (t *Trader) Name() string { return t.name }

// Compare orders traders by screen name, ignoring case.
func (t *Trader) Compare(other *Trader) int {
	return strings.Compare(strings.ToLower(t.name), strings.ToLower(other.name))
}

func (t *Trader) Receive(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mailbox = append(t.mailbox, msg)
}

func (t *Trader) HasMessages() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.mailbox) > 0
}

// Messages drains the mailbox, oldest first.
func (t *Trader) Messages() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.mailbox
	t.mailbox = nil
	return msgs
}

func (t *Trader) Quote(symbol string) {
	t.brokerage.Quote(symbol, t)
}

// Place submits an order owned by this trader.
func (t *Trader) Place(ticker string, side Side, orderType OrderType, quantity uint64, price float64) error {
	return t.brokerage.Place(NewOrder(t.name, ticker, side, orderType, quantity, price))
}

func (t *Trader) Quit() {
	t.brokerage.Logout(t)
}
