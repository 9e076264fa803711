package params

import (
	"context"
	"testing"

	"carbex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupParamsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MarketParams{}))
	return &Service{DB: db}
}

func TestEnsure_SeedsOnceOnly(t *testing.T) {
	svc := setupParamsTest(t)
	require.NoError(t, svc.Ensure(250, 1))

	// A second Ensure with different defaults must not overwrite.
	require.NoError(t, svc.Ensure(999, 50))

	p, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, p.PlatformFeeBps)
	assert.Equal(t, int64(1), p.MinBidIncrement)
}

func TestSetPlatformFee_Bounds(t *testing.T) {
	svc := setupParamsTest(t)
	require.NoError(t, svc.Ensure(250, 1))
	ctx := context.Background()

	assert.Equal(t, ErrInvalidFee, svc.SetPlatformFee(ctx, -1))
	assert.Equal(t, ErrFeeExceedsMaximum, svc.SetPlatformFee(ctx, 1001))

	require.NoError(t, svc.SetPlatformFee(ctx, 1000))
	p, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, p.PlatformFeeBps)

	// Zero fee is allowed.
	require.NoError(t, svc.SetPlatformFee(ctx, 0))
}

func TestSetMinBidIncrement(t *testing.T) {
	svc := setupParamsTest(t)
	require.NoError(t, svc.Ensure(250, 1))
	ctx := context.Background()

	assert.Equal(t, ErrInvalidBidIncrement, svc.SetMinBidIncrement(ctx, 0))
	assert.Equal(t, ErrInvalidBidIncrement, svc.SetMinBidIncrement(ctx, -3))

	require.NoError(t, svc.SetMinBidIncrement(ctx, 25))
	p, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), p.MinBidIncrement)
}

// Fee math floors: no fractional fee units ever leave the buyer's payment.
func TestPlatformFee_Floors(t *testing.T) {
	p := domain.MarketParams{PlatformFeeBps: 250}
	assert.Equal(t, int64(300), p.PlatformFee(12000))
	assert.Equal(t, int64(1), p.PlatformFee(50))
	assert.Equal(t, int64(0), p.PlatformFee(39))
	assert.Equal(t, int64(0), domain.MarketParams{PlatformFeeBps: 0}.PlatformFee(12000))
}
