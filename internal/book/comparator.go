package book

import "safetrade/internal/common"

// PriceComparator ranks orders that sit on the same side of a book. A
// negative result means a ranks ahead of b.
//
// Market orders always rank ahead of limit orders and tie with each other.
// Limit orders compare by price in whole cents, so prices closer than half
// a cent tie. Ascending puts the lowest price first (asks), descending the
// highest (bids).
type PriceComparator struct {
	ascending bool
}

func NewPriceComparator(ascending bool) PriceComparator {
	return PriceComparator{ascending: ascending}
}

func (c PriceComparator) Ascending() bool { return c.ascending }

func (c PriceComparator) Compare(a, b *common.Order) int {
	switch {
	case a.IsMarket() && b.IsMarket():
		return 0
	case a.IsMarket():
		return -1
	case b.IsMarket():
		return 1
	}

	diff := common.CompareCents(a.LimitPrice, b.LimitPrice)
	if !c.ascending {
		diff = -diff
	}
	return diff
}
