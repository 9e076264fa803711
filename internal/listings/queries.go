package listings

import (
	"context"

	"carbex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetListing returns a listing by id.
func (s *Service) GetListing(ctx context.Context, listingID uint64) (domain.Listing, error) {
	return s.load(s.DB.WithContext(ctx), listingID)
}

// GetListingBids returns the bid history of a listing in chronological order.
func (s *Service) GetListingBids(ctx context.Context, listingID uint64) ([]domain.Bid, error) {
	if _, err := s.load(s.DB.WithContext(ctx), listingID); err != nil {
		return nil, err
	}
	var bids []domain.Bid
	err := s.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("bid_id ASC").
		Find(&bids).Error
	return bids, err
}

// GetSellerListings returns all listings opened by a seller, newest first.
func (s *Service) GetSellerListings(ctx context.Context, seller uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.DB.WithContext(ctx).
		Where("seller_id = ?", seller).
		Order("listing_id DESC").
		Find(&out).Error
	return out, err
}

// GetActiveListings returns all active listings, newest first.
func (s *Service) GetActiveListings(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	err := s.DB.WithContext(ctx).
		Where("status = ?", domain.ListingActive).
		Order("listing_id DESC").
		Find(&out).Error
	return out, err
}

// GetDutchParams returns the decay schedule of a Dutch listing.
func (s *Service) GetDutchParams(ctx context.Context, listingID uint64) (domain.DutchParams, error) {
	var dp domain.DutchParams
	err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&dp).Error
	if err == gorm.ErrRecordNotFound {
		return dp, ErrNotDutch
	}
	return dp, err
}
