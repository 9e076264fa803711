package health

import (
	"context"

	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
}

// GET / — liveness with dependency summary.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	result := CollectHealth(c.Context(), h.Rdb, h.DB)
	return c.JSON(result)
}

// GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(c.Context(), h.Rdb, h.DB)
	return c.JSON(result)
}

// GET /health/reset — clears traffic counters; requires the admin key.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey == "" || c.Query("key") != h.HealthAdminKey {
		return response.Unauthorized(c, "Unauthorized")
	}
	if h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx,
			middleware.KeyReqTotal,
			middleware.KeyReqErrors,
			middleware.KeyResTime,
			middleware.KeyResCount,
			middleware.KeyLastReq,
		)
	}
	return response.Success(c, "Health counters reset", nil, nil)
}
