package ledger

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerApp(svc *Service, user uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id": user.String(),
			"role":    "trader",
		})
		return c.Next()
	})
	h := &Handlers{Service: svc}
	app.Post("/api/v1/ledger/withdraw", h.Withdraw)
	app.Get("/api/v1/ledger/balance", h.Balance)
	return app
}

func TestWithdrawHandler_EmptyBalance(t *testing.T) {
	svc, _ := setupLedgerTest(t)
	app := ledgerApp(svc, uuid.New())

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/ledger/withdraw", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWithdrawHandler_PaysOut(t *testing.T) {
	svc, db := setupLedgerTest(t)
	account := uuid.New()
	require.NoError(t, svc.Credit(db, account, 120))
	app := ledgerApp(svc, account)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/ledger/withdraw", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Paid int64 `json:"paid"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, int64(120), envelope.Data.Paid)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/ledger/balance", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var balEnvelope struct {
		Data struct {
			Pending int64 `json:"pending"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&balEnvelope))
	assert.Zero(t, balEnvelope.Data.Pending)
}

func TestWithdrawHandler_NoSessionUser(t *testing.T) {
	svc, _ := setupLedgerTest(t)
	app := fiber.New()
	h := &Handlers{Service: svc}
	app.Post("/api/v1/ledger/withdraw", h.Withdraw)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/ledger/withdraw", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
