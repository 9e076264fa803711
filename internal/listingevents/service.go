package listingevents

import (
	"context"

	"carbex-backend/internal/domain"

	"gorm.io/gorm"
)

// Service reads the append-only listing audit trail.
type Service struct {
	DB *gorm.DB
}

// ForListing returns all events of one listing in insertion order.
func (s *Service) ForListing(ctx context.Context, listingID uint64) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order(`"createdAt" ASC`).
		Find(&events).Error
	return events, err
}
