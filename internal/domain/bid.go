package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is an append-only audit record of an accepted English-auction bid.
// Insertion order (BidID) is chronological order.
type Bid struct {
	BidID     uint64    `gorm:"column:bid_id;primaryKey;autoIncrement" json:"bid_id"`
	ListingID uint64    `gorm:"column:listing_id;not null;index" json:"listing_id"`
	Bidder    uuid.UUID `gorm:"column:bidder;type:uuid;not null" json:"bidder"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Bid) TableName() string {
	return "Bids"
}
