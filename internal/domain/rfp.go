package domain

import (
	"time"

	"github.com/google/uuid"
)

// RFP is a buyer demand post. Matching RFPs to listings happens off-process;
// Fulfilled is reserved for that external matcher and is never set here.
type RFP struct {
	RFPID             uint64    `gorm:"column:rfp_id;primaryKey;autoIncrement" json:"rfp_id"`
	Buyer             uuid.UUID `gorm:"column:buyer;type:uuid;not null;index" json:"buyer"`
	DesiredAmount     int64     `gorm:"column:desired_amount;not null" json:"desired_amount"`
	MaxPricePerCredit int64     `gorm:"column:max_price_per_credit;not null" json:"max_price_per_credit"`
	ProjectID         string    `gorm:"column:project_id;not null;index" json:"project_id"`
	Requirements      string    `gorm:"column:requirements" json:"requirements"`
	Deadline          time.Time `gorm:"column:deadline;not null" json:"deadline"`
	Fulfilled         bool      `gorm:"column:fulfilled;not null;default:false" json:"fulfilled"`
	CreatedAt         time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (RFP) TableName() string {
	return "RFPs"
}
