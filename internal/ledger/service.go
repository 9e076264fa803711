package ledger

import (
	"context"
	"errors"

	"carbex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount     = errors.New("Credit amount must be positive")
	ErrNothingToWithdraw = errors.New("Nothing to withdraw")
)

// Payouts delivers withdrawn funds. It runs inside the withdrawal
// transaction so a failed delivery rolls the debit back with it.
type Payouts interface {
	Pay(tx *gorm.DB, account uuid.UUID, amount int64) error
}

// RecordedPayouts writes a Payout row per withdrawal; the finance side
// executes the actual bank transfer from that record.
type RecordedPayouts struct{}

func (RecordedPayouts) Pay(tx *gorm.DB, account uuid.UUID, amount int64) error {
	return tx.Create(&domain.Payout{Account: account, Amount: amount}).Error
}

// Service is the pull-payment ledger. Settlement and refunds credit pending
// balances; funds leave only through Withdraw.
type Service struct {
	DB      *gorm.DB
	Payouts Payouts
}

// Credit adds amount to the account's pending balance inside the caller's
// transaction.
func (s *Service) Credit(tx *gorm.DB, account uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	var e domain.LedgerEntry
	err := tx.Where("account = ?", account).First(&e).Error
	if err == gorm.ErrRecordNotFound {
		return tx.Create(&domain.LedgerEntry{Account: account, Pending: amount}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&e).Update("pending", gorm.Expr("pending + ?", amount)).Error
}

// Pending returns the account's withdrawable balance.
func (s *Service) Pending(ctx context.Context, account uuid.UUID) (int64, error) {
	var e domain.LedgerEntry
	err := s.DB.WithContext(ctx).Where("account = ?", account).First(&e).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return e.Pending, nil
}

// Withdraw pays out the full pending balance of an account and returns the
// amount paid. The balance is zeroed before the payout runs; because both
// happen in one transaction, a failed payout restores the balance and a
// re-entered withdrawal sees zero pending and is rejected.
func (s *Service) Withdraw(ctx context.Context, account uuid.UUID) (int64, error) {
	var paid int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e domain.LedgerEntry
		if err := tx.Where("account = ?", account).First(&e).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNothingToWithdraw
			}
			return err
		}
		if e.Pending <= 0 {
			return ErrNothingToWithdraw
		}

		// Zero before paying. The guard on pending catches a concurrent
		// withdrawal that already drained the entry.
		res := tx.Model(&domain.LedgerEntry{}).
			Where("account = ? AND pending = ?", account, e.Pending).
			Update("pending", 0)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNothingToWithdraw
		}

		if err := s.Payouts.Pay(tx, account, e.Pending); err != nil {
			return err
		}
		paid = e.Pending
		return nil
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}
