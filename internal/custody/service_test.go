package custody

import (
	"context"
	"testing"

	"carbex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCustodyTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Holding{}))
	return &Service{DB: db}, db
}

func TestDeposit_Accumulates(t *testing.T) {
	svc, db := setupCustodyTest(t)
	owner := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Deposit(ctx, owner, "VCS-001", 100))
	require.NoError(t, svc.Deposit(ctx, owner, "VCS-001", 25))

	bal, err := svc.BalanceOf(db, owner, "VCS-001")
	require.NoError(t, err)
	assert.Equal(t, int64(125), bal)
}

func TestBalanceOf_UnknownHoldingIsZero(t *testing.T) {
	svc, db := setupCustodyTest(t)
	bal, err := svc.BalanceOf(db, uuid.New(), "VCS-001")
	require.NoError(t, err)
	assert.Zero(t, bal)
}

func TestTransfer_MovesBetweenAccounts(t *testing.T) {
	svc, db := setupCustodyTest(t)
	from, to := uuid.New(), uuid.New()
	require.NoError(t, svc.Deposit(context.Background(), from, "VCS-001", 100))

	require.NoError(t, svc.Transfer(db, from, to, "VCS-001", 40))

	fromBal, err := svc.BalanceOf(db, from, "VCS-001")
	require.NoError(t, err)
	toBal, err := svc.BalanceOf(db, to, "VCS-001")
	require.NoError(t, err)
	assert.Equal(t, int64(60), fromBal)
	assert.Equal(t, int64(40), toBal)
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	svc, db := setupCustodyTest(t)
	from, to := uuid.New(), uuid.New()
	require.NoError(t, svc.Deposit(context.Background(), from, "VCS-001", 10))

	assert.Equal(t, ErrInsufficientBalance, svc.Transfer(db, from, to, "VCS-001", 40))
	assert.Equal(t, ErrInsufficientBalance, svc.Transfer(db, to, from, "VCS-001", 1))

	fromBal, err := svc.BalanceOf(db, from, "VCS-001")
	require.NoError(t, err)
	assert.Equal(t, int64(10), fromBal)
}

// Balances are tracked per project category; a transfer in one project never
// touches another.
func TestTransfer_ProjectIsolation(t *testing.T) {
	svc, db := setupCustodyTest(t)
	from, to := uuid.New(), uuid.New()
	ctx := context.Background()
	require.NoError(t, svc.Deposit(ctx, from, "VCS-001", 100))
	require.NoError(t, svc.Deposit(ctx, from, "GS-777", 50))

	assert.Equal(t, ErrInsufficientBalance, svc.Transfer(db, from, to, "GS-777", 60))
	require.NoError(t, svc.Transfer(db, from, to, "GS-777", 50))

	bal, err := svc.BalanceOf(db, from, "VCS-001")
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal)
}

func TestTransfer_RejectsNonPositive(t *testing.T) {
	svc, db := setupCustodyTest(t)
	assert.Equal(t, ErrInvalidAmount, svc.Transfer(db, uuid.New(), uuid.New(), "VCS-001", 0))
	assert.Equal(t, ErrInvalidAmount, svc.Deposit(context.Background(), uuid.New(), "VCS-001", -1))
}

func TestHoldingsOf(t *testing.T) {
	svc, _ := setupCustodyTest(t)
	owner := uuid.New()
	ctx := context.Background()
	require.NoError(t, svc.Deposit(ctx, owner, "VCS-001", 100))
	require.NoError(t, svc.Deposit(ctx, owner, "GS-777", 50))
	require.NoError(t, svc.Deposit(ctx, uuid.New(), "VCS-001", 9))

	holdings, err := svc.HoldingsOf(ctx, owner)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "GS-777", holdings[0].ProjectID)
	assert.Equal(t, "VCS-001", holdings[1].ProjectID)
}
