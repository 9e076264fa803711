package custody

import (
	"context"
	"errors"

	"carbex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("Transfer amount must be positive")
	ErrInsufficientBalance = errors.New("Insufficient credit balance")
)

// Service tracks credit balances per (owner, project) on behalf of the
// upstream registry. Minting and burning happen upstream; the marketplace
// only checks balances and moves credits.
//
// Transfer and BalanceOf take the caller's *gorm.DB so that escrow moves
// commit or roll back together with the listing state that triggered them.
type Service struct {
	DB *gorm.DB
}

// BalanceOf returns the credit balance of owner in projectID (0 if no holding).
func (s *Service) BalanceOf(tx *gorm.DB, owner uuid.UUID, projectID string) (int64, error) {
	var h domain.Holding
	err := tx.Where("owner = ? AND project_id = ?", owner, projectID).First(&h).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Balance, nil
}

// Transfer moves amount credits of projectID from one account to another.
// All-or-nothing: an insufficient balance fails without partial movement.
func (s *Service) Transfer(tx *gorm.DB, from, to uuid.UUID, projectID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var sender domain.Holding
	if err := tx.Where("owner = ? AND project_id = ?", from, projectID).First(&sender).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrInsufficientBalance
		}
		return err
	}
	if sender.Balance < amount {
		return ErrInsufficientBalance
	}

	res := tx.Model(&domain.Holding{}).
		Where("holding_id = ? AND balance >= ?", sender.HoldingID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	var receiver domain.Holding
	err := tx.Where("owner = ? AND project_id = ?", to, projectID).First(&receiver).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.Holding{
			Owner:     to,
			ProjectID: projectID,
			Balance:   amount,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&receiver).Update("balance", gorm.Expr("balance + ?", amount)).Error
}

// Deposit credits an account directly. Used by registry sync jobs and tests;
// not exposed over HTTP.
func (s *Service) Deposit(ctx context.Context, owner uuid.UUID, projectID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h domain.Holding
		err := tx.Where("owner = ? AND project_id = ?", owner, projectID).First(&h).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&domain.Holding{Owner: owner, ProjectID: projectID, Balance: amount}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&h).Update("balance", gorm.Expr("balance + ?", amount)).Error
	})
}

// HoldingsOf lists all holdings of an account.
func (s *Service) HoldingsOf(ctx context.Context, owner uuid.UUID) ([]domain.Holding, error) {
	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).Where("owner = ?", owner).Order("project_id").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}
