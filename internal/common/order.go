package common

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrMalformedOrder     = errors.New("malformed order")
	ErrInsufficientShares = errors.New("shares are greater than the number of shares in this order")
)

// Bounds on what an order may carry. MaxPrice keeps a price in cents within
// int64 with room to spare, and MaxQuantity keeps share counts within int64
// so amounts and running totals cannot wrap.
const (
	MaxPrice    = 1e12
	MaxQuantity = math.MaxInt32
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

type Order struct {
	UUID          string    // Order tracked uuid
	Owner         string    `validate:"required"` // Who owns this order, used only for notification
	Ticker        string    `validate:"required"` // Specific asset identifier
	Side          Side      `validate:"oneof=0 1"`
	OrderType     OrderType `validate:"oneof=0 1"`
	LimitPrice    float64   // Limiting price, ignored for market orders
	Quantity      uint64    `validate:"gt=0,lte=2147483647"` // Remaining quantity
	TotalQuantity uint64    // Total volume requested
	Timestamp     time.Time // Time of creation of the order
	ExchTimestamp time.Time // Time of arrival of order into the book
	Seq           uint64    // Arrival sequence within its book side
}

// NewOrder creates an order with a fresh uuid and its total quantity set to
// the requested quantity.
func NewOrder(owner, ticker string, side Side, orderType OrderType, quantity uint64, price float64) Order {
	return Order{
		UUID:          uuid.New().String(),
		Owner:         owner,
		Ticker:        ticker,
		Side:          side,
		OrderType:     orderType,
		LimitPrice:    price,
		Quantity:      quantity,
		TotalQuantity: quantity,
		Timestamp:     time.Now(),
	}
}

func (order *Order) IsBuy() bool    { return order.Side == Buy }
func (order *Order) IsSell() bool   { return order.Side == Sell }
func (order *Order) IsLimit() bool  { return order.OrderType == LimitOrder }
func (order *Order) IsMarket() bool { return order.OrderType == MarketOrder }

// SubtractShares removes n shares from the remaining quantity. Asking for
// more than remains is an error and leaves the order unchanged.
func (order *Order) SubtractShares(n uint64) error {
	if n > order.Quantity {
		return fmt.Errorf("%w: order %s has %d, asked %d",
			ErrInsufficientShares, order.UUID, order.Quantity, n)
	}
	order.Quantity -= n
	return nil
}

// Validate rejects orders that must never reach a book: no owner, no ticker,
// zero or oversized quantity, unknown side or type, or a limit price that is
// out of range (see ValidPrice).
func (order Order) Validate() error {
	if err := orderValidator().Struct(order); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	return nil
}

func orderValidator() *validator.Validate {
	onceValidate.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(validateOrderPrice, Order{})
	})
	return validate
}

func validateOrderPrice(sl validator.StructLevel) {
	order := sl.Current().Interface().(Order)
	if order.OrderType != LimitOrder {
		return
	}
	if !ValidPrice(order.LimitPrice) {
		sl.ReportError(order.LimitPrice, "LimitPrice", "LimitPrice", "price", "")
	}
}

// ValidPrice reports whether p is a usable price: finite, not negative and
// at most MaxPrice.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= MaxPrice
}

func (order Order) String() string {
	return fmt.Sprintf(
		`UUID:          %v
Owner:         %s
Ticker:        %s
Side:          %v
OrderType:     %v
LimitPrice:    %s
Quantity:      %d (Total: %d)
Timestamp:     %v
ExchTimestamp: %v`,
		order.UUID,
		order.Owner,
		order.Ticker,
		order.Side,
		order.OrderType,
		FormatMoney(order.LimitPrice),
		order.Quantity,
		order.TotalQuantity,
		order.Timestamp.Format(time.RFC3339),
		order.ExchTimestamp.Format(time.RFC3339),
	)
}
