package rfps

import (
	"context"
	"errors"
	"time"

	"carbex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidDesiredAmount = errors.New("Desired amount must be positive")
	ErrInvalidMaxPrice      = errors.New("Max price per credit must be positive")
	ErrDeadlineNotFuture    = errors.New("Deadline must be in the future")
	ErrMissingProject       = errors.New("Missing required field: project_id")
)

// Service is the request board: buyer demand posts that sellers poll.
// Matching RFPs against listings is not done here; the Fulfilled flag
// belongs to the external matcher.
type Service struct {
	DB *gorm.DB

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateInput struct {
	ProjectID         string
	DesiredAmount     int64
	MaxPricePerCredit int64
	Requirements      string
	Deadline          time.Time
}

// Create posts a new RFP and returns its id.
func (s *Service) Create(ctx context.Context, buyer uuid.UUID, in CreateInput) (uint64, error) {
	if in.ProjectID == "" {
		return 0, ErrMissingProject
	}
	if in.DesiredAmount <= 0 {
		return 0, ErrInvalidDesiredAmount
	}
	if in.MaxPricePerCredit <= 0 {
		return 0, ErrInvalidMaxPrice
	}
	if !in.Deadline.After(s.now()) {
		return 0, ErrDeadlineNotFuture
	}
	rfp := domain.RFP{
		Buyer:             buyer,
		ProjectID:         in.ProjectID,
		DesiredAmount:     in.DesiredAmount,
		MaxPricePerCredit: in.MaxPricePerCredit,
		Requirements:      in.Requirements,
		Deadline:          in.Deadline,
	}
	if err := s.DB.WithContext(ctx).Create(&rfp).Error; err != nil {
		return 0, err
	}
	return rfp.RFPID, nil
}

// Open returns unfulfilled RFPs whose deadline has not passed, newest first.
func (s *Service) Open(ctx context.Context) ([]domain.RFP, error) {
	var out []domain.RFP
	err := s.DB.WithContext(ctx).
		Where("fulfilled = ? AND deadline > ?", false, s.now()).
		Order("rfp_id DESC").
		Find(&out).Error
	return out, err
}

// ForBuyer returns all RFPs posted by one buyer, newest first.
func (s *Service) ForBuyer(ctx context.Context, buyer uuid.UUID) ([]domain.RFP, error) {
	var out []domain.RFP
	err := s.DB.WithContext(ctx).
		Where("buyer = ?", buyer).
		Order("rfp_id DESC").
		Find(&out).Error
	return out, err
}
