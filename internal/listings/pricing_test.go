package listings

import (
	"testing"
	"time"

	"carbex-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func dutchFixture(start time.Time) (domain.Listing, domain.DutchParams) {
	l := domain.Listing{
		StartingPrice: 100,
		ReservePrice:  20,
		AuctionType:   domain.AuctionDutch,
		StartTime:     start,
	}
	dp := domain.DutchParams{
		PriceDecrement:    10,
		DecrementInterval: 600, // 10 minutes
	}
	return l, dp
}

func TestDutchPrice_AtStart(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, dp := dutchFixture(start)
	assert.Equal(t, int64(100), dutchPrice(l, dp, start))
}

func TestDutchPrice_BeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, dp := dutchFixture(start)
	assert.Equal(t, int64(100), dutchPrice(l, dp, start.Add(-time.Minute)))
}

// Partial intervals do not count: 25 minutes at 10/10min is two full steps.
func TestDutchPrice_MidDecay(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, dp := dutchFixture(start)
	assert.Equal(t, int64(80), dutchPrice(l, dp, start.Add(25*time.Minute)))
}

func TestDutchPrice_FloorsAtReserve(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, dp := dutchFixture(start)

	// Span 80 at decrement 10 needs 8 intervals to reach the floor.
	assert.Equal(t, int64(30), dutchPrice(l, dp, start.Add(70*time.Minute)))
	assert.Equal(t, int64(20), dutchPrice(l, dp, start.Add(80*time.Minute)))
	assert.Equal(t, int64(20), dutchPrice(l, dp, start.Add(100*24*time.Hour)))
}

// A decrement bigger than the span collapses to the reserve after one step.
func TestDutchPrice_LargeDecrement(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l, dp := dutchFixture(start)
	dp.PriceDecrement = 500
	assert.Equal(t, int64(100), dutchPrice(l, dp, start.Add(5*time.Minute)))
	assert.Equal(t, int64(20), dutchPrice(l, dp, start.Add(10*time.Minute)))
}
