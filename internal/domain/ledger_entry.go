package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry is the pending-funds balance of one account. Settlements and
// refunds credit it; funds leave only through withdrawal (pull payment).
type LedgerEntry struct {
	Account   uuid.UUID `gorm:"column:account;type:uuid;primaryKey" json:"account"`
	Pending   int64     `gorm:"column:pending;not null;default:0" json:"pending"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (LedgerEntry) TableName() string {
	return "LedgerEntries"
}

// Payout records an executed withdrawal. Written in the same transaction
// that zeroes the pending balance.
type Payout struct {
	PayoutID  uint64    `gorm:"column:payout_id;primaryKey;autoIncrement" json:"payout_id"`
	Account   uuid.UUID `gorm:"column:account;type:uuid;not null;index" json:"account"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Payout) TableName() string {
	return "Payouts"
}
