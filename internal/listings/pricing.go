package listings

import (
	"time"

	"carbex-backend/internal/domain"
)

// dutchPrice computes the live price of a Dutch listing at the given instant.
// Pure function of the immutable listing parameters; the stored CurrentPrice
// is never consulted for Dutch settlement.
func dutchPrice(l domain.Listing, dp domain.DutchParams, now time.Time) int64 {
	elapsed := now.Sub(l.StartTime)
	if elapsed <= 0 {
		return l.StartingPrice
	}
	intervals := int64(elapsed / dp.Interval())
	span := l.StartingPrice - l.ReservePrice

	// Intervals needed to reach the floor; comparing interval counts instead
	// of totals keeps the multiplication below from overflowing.
	floorIntervals := (span + dp.PriceDecrement - 1) / dp.PriceDecrement
	if intervals >= floorIntervals {
		return l.ReservePrice
	}
	return l.StartingPrice - intervals*dp.PriceDecrement
}
