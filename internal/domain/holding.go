package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holding is the credit balance of one account in one project category, as
// tracked by the registry-facing custodian. The marketplace escrow account
// holds the credits of every active listing.
type Holding struct {
	HoldingID uuid.UUID `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	Owner     uuid.UUID `gorm:"column:owner;type:uuid;not null;uniqueIndex:idx_holder_project" json:"owner"`
	ProjectID string    `gorm:"column:project_id;not null;uniqueIndex:idx_holder_project" json:"project_id"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Holding) TableName() string {
	return "Holdings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
