package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	. "safetrade/internal/common"

	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyListed = errors.New("stock already listed")
	ErrInvalidPrice  = errors.New("invalid opening price")
)

// Engine is the exchange directory: it maps symbols to their stocks and
// forwards orders to the matching stock. Each stock matches independently.
type Engine struct {
	mu       sync.RWMutex
	stocks   map[string]*Stock
	reporter Reporter
}

func New(reporter Reporter) *Engine {
	return &Engine{
		stocks:   make(map[string]*Stock),
		reporter: reporter,
	}
}

func (engine *Engine) SetReporter(reporter Reporter) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.reporter = reporter
}

// List adds a new stock opening at price. The price must pass ValidPrice.
func (engine *Engine) List(symbol, name string, price float64) error {
	if !ValidPrice(price) {
		return fmt.Errorf("%w: %s at %v", ErrInvalidPrice, symbol, price)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()

	if _, ok := engine.stocks[symbol]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyListed, symbol)
	}
	engine.stocks[symbol] = NewStock(symbol, name, price)
	log.Info().Str("ticker", symbol).Str("name", name).Float64("price", price).Msg("stock listed")
	return nil
}

func (engine *Engine) Stock(symbol string) (*Stock, bool) {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	stock, ok := engine.stocks[symbol]
	return stock, ok
}

// Symbols returns the listed symbols in sorted order.
func (engine *Engine) Symbols() []string {
	engine.mu.RLock()
	defer engine.mu.RUnlock()

	symbols := make([]string, 0, len(engine.stocks))
	for symbol := range engine.stocks {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Quote returns the quote of a stock, or "XYZ not found." for an unknown
// symbol.
func (engine *Engine) Quote(symbol string) string {
	stock, ok := engine.Stock(symbol)
	if !ok {
		return notFound(symbol)
	}
	return stock.Quote()
}

// Place routes the order to its stock and reports every resulting notice
// before returning. An unknown symbol is reported to the owner without
// touching any stock.
func (engine *Engine) Place(order Order) error {
	stock, ok := engine.Stock(order.Ticker)
	if !ok {
		engine.report(Notice{Recipient: order.Owner, Text: notFound(order.Ticker)})
		return nil
	}

	res, err := stock.Place(order)
	for _, notice := range res.Notices {
		engine.report(notice)
	}
	return err
}

// report hands a notice to the reporter. A failing reporter must not stall
// matching, so failures are only logged.
func (engine *Engine) report(notice Notice) {
	engine.mu.RLock()
	reporter := engine.reporter
	engine.mu.RUnlock()

	if reporter == nil {
		return
	}
	if err := reporter.Report(notice); err != nil {
		log.Error().Err(err).Str("recipient", notice.Recipient).Msg("unable to deliver notice")
	}
}

func notFound(symbol string) string {
	return symbol + " not found."
}
