package ledger

import (
	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/ledger/withdraw — pays out the caller's full pending balance.
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	account, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	paid, err := h.Service.Withdraw(c.Context(), account)
	if err != nil {
		if err == ErrNothingToWithdraw {
			return response.BadRequest(c, err.Error())
		}
		log.Warn().Str("account", account.String()).Err(err).Msg("Withdrawal failed")
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Withdrawal successful", fiber.Map{"paid": paid}, nil)
}

// GET /api/v1/ledger/balance — the caller's pending balance.
func (h *Handlers) Balance(c *fiber.Ctx) error {
	account, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	pending, err := h.Service.Pending(c.Context(), account)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{"pending": pending}, nil)
}
