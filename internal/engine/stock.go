package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"safetrade/internal/book"
	. "safetrade/internal/common"

	"github.com/rs/zerolog/log"
)

var (
	ErrWrongSymbol = errors.New("order symbol does not match stock")
	ErrInvariant   = errors.New("matching invariant violated")
)

// Result lists what a single placement produced, in emission order.
type Result struct {
	Notices []Notice
	Trades  []Trade
}

// Stock is the matching engine for one instrument. It owns a bid and an ask
// side and the day statistics of the instrument.
type Stock struct {
	mu sync.Mutex

	symbol string
	name   string

	// Day statistics. All three prices start at the opening price.
	last   float64
	low    float64
	high   float64
	volume uint64

	bids *book.Side
	asks *book.Side
}

func NewStock(symbol, name string, price float64) *Stock {
	return &Stock{
		symbol: symbol,
		name:   name,
		last:   price,
		low:    price,
		high:   price,
		bids:   book.NewBuySide(),
		asks:   book.NewSellSide(),
	}
}

// Place adds an order to its side of the book, confirms it to the owner and
// then matches the book until it no longer crosses. A malformed order is
// rejected before it reaches the book and produces no notices.
//
// The returned notices must be delivered in order. If the matching loop
// fails, the notices produced up to the failure are still returned.
func (s *Stock) Place(order Order) (Result, error) {
	if err := order.Validate(); err != nil {
		log.Warn().Err(err).Str("ticker", s.symbol).Msg("order rejected")
		return Result{}, err
	}
	if order.Ticker != s.symbol {
		return Result{}, fmt.Errorf("%w: %s placed on %s", ErrWrongSymbol, order.Ticker, s.symbol)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := order
	o.ExchTimestamp = time.Now()
	if o.TotalQuantity == 0 {
		o.TotalQuantity = o.Quantity
	}
	switch o.Side {
	case Buy:
		s.bids.Push(&o)
	case Sell:
		s.asks.Push(&o)
	}

	res := Result{Notices: []Notice{{Recipient: o.Owner, Text: s.acceptance(&o)}}}
	err := s.match(&res)
	return res, err
}

// acceptance renders the confirmation sent to the owner of a new order.
func (s *Stock) acceptance(o *Order) string {
	at := "market"
	if o.IsLimit() {
		at = "$" + FormatMoney(o.LimitPrice)
	}
	return fmt.Sprintf("New order: %s %s (%s)\n%d shares at %s",
		o.Side, s.symbol, s.name, o.Quantity, at)
}

// match consumes the top of both sides while they cross. The loop stops
// once either side is empty or the best bid and best ask are both limit
// orders with the bid below the ask.
func (s *Stock) match(res *Result) error {
	for {
		buy, bidOk := s.bids.Best()
		sell, askOk := s.asks.Best()
		if !bidOk || !askOk {
			return nil
		}

		price, ok := s.tradePrice(buy, sell)
		if !ok {
			return nil
		}

		qty := min(buy.Quantity, sell.Quantity)
		if err := s.bids.Fill(buy, qty); err != nil {
			return fmt.Errorf("%w: %w", ErrInvariant, err)
		}
		if err := s.asks.Fill(sell, qty); err != nil {
			return fmt.Errorf("%w: %w", ErrInvariant, err)
		}

		s.low = min(s.low, price)
		s.high = max(s.high, price)
		s.last = price
		s.volume += qty

		// Snapshot both orders so the trade does not alias the book.
		buyer, seller := *buy, *sell
		trade := Trade{
			Buyer:     &buyer,
			Seller:    &seller,
			Timestamp: time.Now(),
			MatchQty:  qty,
			Price:     price,
		}
		res.Trades = append(res.Trades, trade)
		res.Notices = append(res.Notices, trade.Notices(s.symbol)...)

		log.Debug().
			Str("ticker", s.symbol).
			Str("buyer", buy.Owner).
			Str("seller", sell.Owner).
			Uint64("qty", qty).
			Float64("price", price).
			Msg("trade")
	}
}

// tradePrice decides the execution price for the two best orders. Two limit
// orders trade at the ask, one limit order sets the price for a market
// order, and two market orders trade at the last price. It reports false
// when two limit orders do not cross.
func (s *Stock) tradePrice(buy, sell *Order) (float64, bool) {
	switch {
	case buy.IsLimit() && sell.IsLimit():
		if buy.LimitPrice < sell.LimitPrice {
			return 0, false
		}
		return sell.LimitPrice, true
	case buy.IsLimit():
		return buy.LimitPrice, true
	case sell.IsLimit():
		return sell.LimitPrice, true
	}
	return s.last, true
}

// Quote renders a snapshot of the stock, e.g.
//
//	Giggle.com (GGGL)
//	Price: 10.00  hi: 10.00  lo: 10.00  vol: 0
//	Ask: 12.75 size: 300  Bid: 12.00 size: 500
func (s *Stock) Quote() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", s.name, s.symbol)
	fmt.Fprintf(&sb, "Price: %s  hi: %s  lo: %s  vol: %d\n",
		FormatMoney(s.last), FormatMoney(s.high), FormatMoney(s.low), s.volume)
	fmt.Fprintf(&sb, "Ask: %s  Bid: %s", bestOf(s.asks), bestOf(s.bids))
	return sb.String()
}

func bestOf(side *book.Side) string {
	o, ok := side.Best()
	if !ok {
		return "none"
	}
	price := "market"
	if o.IsLimit() {
		price = FormatMoney(o.LimitPrice)
	}
	return fmt.Sprintf("%s size: %d", price, o.Quantity)
}

func (s *Stock) Symbol() string { return s.symbol }
func (s *Stock) Name() string   { return s.name }

func (s *Stock) Last() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Stock) Low() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.low
}

func (s *Stock) High() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.high
}

func (s *Stock) Volume() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// BestBid returns a copy of the top of the bid side.
func (s *Stock) BestBid() (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return peek(s.bids)
}

// BestAsk returns a copy of the top of the ask side.
func (s *Stock) BestAsk() (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return peek(s.asks)
}

// Bids returns copies of the resting bids, best first.
func (s *Stock) Bids() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flatten(s.bids)
}

// Asks returns copies of the resting asks, best first.
func (s *Stock) Asks() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flatten(s.asks)
}

func peek(side *book.Side) (Order, bool) {
	o, ok := side.Best()
	if !ok {
		return Order{}, false
	}
	return *o, true
}

func flatten(side *book.Side) []Order {
	items := side.Items()
	orders := make([]Order, len(items))
	for i, o := range items {
		orders[i] = *o
	}
	return orders
}
