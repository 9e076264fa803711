package domain

import "time"

// MaxPlatformFeeBps caps the platform fee at 10%.
const MaxPlatformFeeBps = 1000

// MarketParams is the single row (ID 1) of platform-wide settings.
type MarketParams struct {
	ID              int       `gorm:"column:id;primaryKey" json:"id"`
	PlatformFeeBps  int       `gorm:"column:platform_fee_bps;not null" json:"platform_fee_bps"`
	MinBidIncrement int64     `gorm:"column:min_bid_increment;not null" json:"min_bid_increment"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (MarketParams) TableName() string {
	return "MarketParams"
}

// PlatformFee returns the fee on price in integer money units, floored.
func (p MarketParams) PlatformFee(price int64) int64 {
	return price * int64(p.PlatformFeeBps) / 10000
}
