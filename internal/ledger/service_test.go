package ledger

import (
	"context"
	"errors"
	"testing"

	"carbex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.LedgerEntry{}, &domain.Payout{}))
	return &Service{DB: db, Payouts: RecordedPayouts{}}, db
}

func TestCredit_Accumulates(t *testing.T) {
	svc, db := setupLedgerTest(t)
	account := uuid.New()

	require.NoError(t, svc.Credit(db, account, 100))
	require.NoError(t, svc.Credit(db, account, 50))

	pending, err := svc.Pending(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, int64(150), pending)
}

func TestCredit_RejectsNonPositive(t *testing.T) {
	svc, db := setupLedgerTest(t)
	assert.Equal(t, ErrInvalidAmount, svc.Credit(db, uuid.New(), 0))
	assert.Equal(t, ErrInvalidAmount, svc.Credit(db, uuid.New(), -5))
}

func TestPending_UnknownAccountIsZero(t *testing.T) {
	svc, _ := setupLedgerTest(t)
	pending, err := svc.Pending(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestWithdraw_PaysFullBalanceOnce(t *testing.T) {
	svc, db := setupLedgerTest(t)
	account := uuid.New()
	require.NoError(t, svc.Credit(db, account, 150))

	paid, err := svc.Withdraw(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, int64(150), paid)

	pending, err := svc.Pending(context.Background(), account)
	require.NoError(t, err)
	assert.Zero(t, pending)

	var payouts []domain.Payout
	require.NoError(t, db.Find(&payouts).Error)
	require.Len(t, payouts, 1)
	assert.Equal(t, account, payouts[0].Account)
	assert.Equal(t, int64(150), payouts[0].Amount)

	// Second withdrawal finds nothing; no second payout row appears.
	_, err = svc.Withdraw(context.Background(), account)
	assert.Equal(t, ErrNothingToWithdraw, err)
	require.NoError(t, db.Find(&payouts).Error)
	assert.Len(t, payouts, 1)
}

func TestWithdraw_UnknownAccount(t *testing.T) {
	svc, _ := setupLedgerTest(t)
	_, err := svc.Withdraw(context.Background(), uuid.New())
	assert.Equal(t, ErrNothingToWithdraw, err)
}

type failingPayouts struct{}

func (failingPayouts) Pay(tx *gorm.DB, account uuid.UUID, amount int64) error {
	return errors.New("payout rail unavailable")
}

// A failed payout must restore the pending balance, not leave it zeroed.
func TestWithdraw_FailedPayoutRollsBack(t *testing.T) {
	svc, db := setupLedgerTest(t)
	svc.Payouts = failingPayouts{}
	account := uuid.New()
	require.NoError(t, svc.Credit(db, account, 75))

	_, err := svc.Withdraw(context.Background(), account)
	require.Error(t, err)

	pending, err := svc.Pending(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, int64(75), pending)

	var count int64
	require.NoError(t, db.Model(&domain.Payout{}).Count(&count).Error)
	assert.Zero(t, count)
}
