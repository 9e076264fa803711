package params

import (
	"context"
	"errors"

	"carbex-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrFeeExceedsMaximum   = errors.New("Fee exceeds maximum")
	ErrInvalidFee          = errors.New("Invalid fee")
	ErrInvalidBidIncrement = errors.New("Minimum bid increment must be positive")
)

// Service owns the single MarketParams row.
type Service struct {
	DB *gorm.DB
}

// Ensure seeds the params row with the given defaults if it does not exist.
// Called once at startup (and by test setups).
func (s *Service) Ensure(feeBps int, minBidIncrement int64) error {
	var p domain.MarketParams
	err := s.DB.Where("id = ?", 1).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return s.DB.Create(&domain.MarketParams{
			ID:              1,
			PlatformFeeBps:  feeBps,
			MinBidIncrement: minBidIncrement,
		}).Error
	}
	return err
}

// Get reads the current params inside the caller's transaction.
func (s *Service) Get(tx *gorm.DB) (domain.MarketParams, error) {
	var p domain.MarketParams
	err := tx.Where("id = ?", 1).First(&p).Error
	return p, err
}

// Current reads the params outside any transaction.
func (s *Service) Current(ctx context.Context) (domain.MarketParams, error) {
	return s.Get(s.DB.WithContext(ctx))
}

// SetPlatformFee updates the fee, capped at 10% (1000 bps).
func (s *Service) SetPlatformFee(ctx context.Context, bps int) error {
	if bps < 0 {
		return ErrInvalidFee
	}
	if bps > domain.MaxPlatformFeeBps {
		return ErrFeeExceedsMaximum
	}
	return s.DB.WithContext(ctx).Model(&domain.MarketParams{}).
		Where("id = ?", 1).Update("platform_fee_bps", bps).Error
}

// SetMinBidIncrement updates the minimum English-auction bid increment.
func (s *Service) SetMinBidIncrement(ctx context.Context, inc int64) error {
	if inc <= 0 {
		return ErrInvalidBidIncrement
	}
	return s.DB.WithContext(ctx).Model(&domain.MarketParams{}).
		Where("id = ?", 1).Update("min_bid_increment", inc).Error
}
