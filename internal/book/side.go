package book

import (
	"safetrade/internal/common"

	"github.com/tidwall/btree"
)

type Orders = btree.BTreeG[*common.Order]

// Side holds the resting orders of one side of one instrument, best first.
// Orders the comparator ranks equal keep their arrival order.
//
// Side is not safe for concurrent use; the owning stock serialises access.
type Side struct {
	cmp    PriceComparator
	orders *Orders
	seq    uint64 // Next arrival sequence number.
	qty    uint64 // Resting shares across all orders.
}

// NewBuySide returns a side where the highest price is best.
func NewBuySide() *Side { return NewSide(NewPriceComparator(false)) }

// NewSellSide returns a side where the lowest price is best.
func NewSellSide() *Side { return NewSide(NewPriceComparator(true)) }

func NewSide(cmp PriceComparator) *Side {
	less := func(a, b *common.Order) bool {
		if c := cmp.Compare(a, b); c != 0 {
			return c < 0
		}
		return a.Seq < b.Seq
	}
	return &Side{
		cmp:    cmp,
		orders: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

// Push inserts the order, stamping it with the side's next arrival number.
func (s *Side) Push(order *common.Order) {
	s.seq++
	order.Seq = s.seq
	s.orders.Set(order)
	s.qty += order.Quantity
}

// Best returns the top ranked order without removing it.
func (s *Side) Best() (*common.Order, bool) {
	return s.orders.Min()
}

// PopBest removes and returns the top ranked order.
func (s *Side) PopBest() (*common.Order, bool) {
	order, ok := s.orders.PopMin()
	if ok {
		s.qty -= order.Quantity
	}
	return order, ok
}

// Fill records that n shares of a resting order were executed. Orders left
// with no shares are removed.
func (s *Side) Fill(order *common.Order, n uint64) error {
	if err := order.SubtractShares(n); err != nil {
		return err
	}
	s.qty -= n
	if order.Quantity == 0 {
		s.orders.Delete(order)
	}
	return nil
}

func (s *Side) Len() int { return s.orders.Len() }

func (s *Side) Empty() bool { return s.orders.Len() == 0 }

// Quantity is the number of shares resting on this side.
func (s *Side) Quantity() uint64 { return s.qty }

// Items returns the resting orders, best first.
func (s *Side) Items() []*common.Order { return s.orders.Items() }
