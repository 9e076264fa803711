package custody

import (
	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/holdings — the caller's balances per project.
func (h *Handlers) ViewHoldings(c *fiber.Ctx) error {
	owner, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	holdings, err := h.Service.HoldingsOf(c.Context(), owner)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Holdings fetched successfully", holdings, nil)
}
