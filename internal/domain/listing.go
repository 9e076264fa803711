package domain

import (
	"time"

	"github.com/google/uuid"
)

// Auction types.
const (
	AuctionEnglish = "english"
	AuctionDutch   = "dutch"
	AuctionFixed   = "fixed"
)

// Listing statuses. A listing is mutated only while active; completed and
// cancelled are terminal.
const (
	ListingActive    = "active"
	ListingCompleted = "completed"
	ListingCancelled = "cancelled"
)

// Listing is one sale of escrowed credits. ListingID is a monotonic sequence
// assigned by the database on create and never reused.
//
// CurrentPrice holds the highest bid for English auctions and the asking
// price for fixed-price listings. For Dutch auctions it is only the price at
// creation; the live price is always recomputed from DutchParams.
type Listing struct {
	ListingID     uint64     `gorm:"column:listing_id;primaryKey;autoIncrement" json:"listing_id"`
	ProjectID     string     `gorm:"column:project_id;not null;index" json:"project_id"`
	SellerID      uuid.UUID  `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Amount        int64      `gorm:"column:amount;not null" json:"amount"`
	StartingPrice int64      `gorm:"column:starting_price;not null" json:"starting_price"`
	ReservePrice  int64      `gorm:"column:reserve_price;not null;default:0" json:"reserve_price"`
	CurrentPrice  int64      `gorm:"column:current_price;not null" json:"current_price"`
	HighestBidder *uuid.UUID `gorm:"column:highest_bidder;type:uuid" json:"highest_bidder"`
	Winner        *uuid.UUID `gorm:"column:winner;type:uuid" json:"winner"`
	AuctionType   string     `gorm:"column:auction_type;type:varchar(10);not null" json:"auction_type"`
	Status        string     `gorm:"column:status;type:varchar(10);not null;default:'active'" json:"status"`
	StartTime     time.Time  `gorm:"column:start_time;not null" json:"start_time"`
	EndTime       time.Time  `gorm:"column:end_time;not null" json:"end_time"`
	CreatedAt     time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "Listings"
}

// DutchParams carries the price-decay schedule of a Dutch listing. Written
// once alongside the listing and never updated.
type DutchParams struct {
	ListingID         uint64    `gorm:"column:listing_id;primaryKey" json:"listing_id"`
	PriceDecrement    int64     `gorm:"column:price_decrement;not null" json:"price_decrement"`
	DecrementInterval int64     `gorm:"column:decrement_interval_seconds;not null" json:"decrement_interval_seconds"`
	CreatedAt         time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (DutchParams) TableName() string {
	return "DutchParams"
}

// Interval returns the decrement interval as a duration.
func (d DutchParams) Interval() time.Duration {
	return time.Duration(d.DecrementInterval) * time.Second
}
