package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing event types, appended in the same transaction as the mutation.
const (
	EventListingCreated   = "CREATED"
	EventBidPlaced        = "BID_PLACED"
	EventListingCompleted = "COMPLETED"
	EventListingCancelled = "CANCELLED"
)

type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID uint64         `gorm:"column:listing_id;not null;index" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	Actor     *uuid.UUID     `gorm:"column:actor;type:uuid" json:"actor"`
	CreatedAt time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	return nil
}
