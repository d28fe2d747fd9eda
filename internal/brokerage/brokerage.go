package brokerage

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	. "safetrade/internal/common"
	"safetrade/internal/engine"

	"github.com/rs/zerolog/log"
)

const welcome = "Welcome to SafeTrade!"

var (
	ErrNameLength      = errors.New("screen name must be 4 to 10 characters")
	ErrPasswordLength  = errors.New("password must be 2 to 10 characters")
	ErrUserExists      = errors.New("screen name already taken")
	ErrUnknownUser     = errors.New("unknown screen name")
	ErrWrongPassword   = errors.New("wrong password")
	ErrAlreadyLoggedIn = errors.New("trader already logged in")
)

// Brokerage owns trader accounts and sessions. It delivers exchange notices
// into trader mailboxes, so it is usually set as the engine's reporter.
type Brokerage struct {
	mu       sync.Mutex
	exchange *engine.Engine
	traders  map[string]*Trader
	loggedIn map[string]*Trader // keyed by lower-cased screen name
}

func New(exchange *engine.Engine) *Brokerage {
	return &Brokerage{
		exchange: exchange,
		traders:  make(map[string]*Trader),
		loggedIn: make(map[string]*Trader),
	}
}

// AddUser registers a new trader account. Lengths count characters, not
// bytes.
func (b *Brokerage) AddUser(name, password string) error {
	if l := utf8.RuneCountInString(name); l < 4 || l > 10 {
		return fmt.Errorf("%w: %q", ErrNameLength, name)
	}
	if l := utf8.RuneCountInString(password); l < 2 || l > 10 {
		return ErrPasswordLength
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.traders[name]; ok {
		return fmt.Errorf("%w: %q", ErrUserExists, name)
	}
	b.traders[name] = newTrader(b, name, password)
	return nil
}

// Login opens a session for the trader and greets them.
func (b *Brokerage) Login(name, password string) (*Trader, error) {
	b.mu.Lock()
	trader, ok := b.traders[name]
	switch {
	case !ok:
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, name)
	case trader.password != password:
		b.mu.Unlock()
		return nil, ErrWrongPassword
	}
	key := strings.ToLower(name)
	if _, ok := b.loggedIn[key]; ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrAlreadyLoggedIn, name)
	}
	b.loggedIn[key] = trader
	b.mu.Unlock()

	trader.Receive(welcome)
	log.Info().Str("trader", name).Msg("trader logged in")
	return trader, nil
}

func (b *Brokerage) Logout(trader *Trader) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.loggedIn, strings.ToLower(trader.Name()))
	log.Info().Str("trader", trader.Name()).Msg("trader logged out")
}

// LoggedIn reports whether the named trader has an open session.
func (b *Brokerage) LoggedIn(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.loggedIn[strings.ToLower(name)]
	return ok
}

func (b *Brokerage) Trader(name string) (*Trader, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	trader, ok := b.traders[name]
	return trader, ok
}

// Quote sends the quote for symbol to the trader.
func (b *Brokerage) Quote(symbol string, trader *Trader) {
	trader.Receive(b.exchange.Quote(symbol))
}

func (b *Brokerage) Place(order Order) error {
	return b.exchange.Place(order)
}

// Report delivers a notice to the mailbox of its recipient.
func (b *Brokerage) Report(notice Notice) error {
	trader, ok := b.Trader(notice.Recipient)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, notice.Recipient)
	}
	trader.Receive(notice.Text)
	return nil
}
