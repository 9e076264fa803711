package params

import (
	"encoding/json"

	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/params — current fee and bid increment (public read).
func (h *Handlers) GetParams(c *fiber.Ctx) error {
	p, err := h.Service.Current(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Market parameters fetched", p, nil)
}

// PATCH /api/v1/params/fee — admin only.
func (h *Handlers) SetPlatformFee(c *fiber.Ctx) error {
	var body struct {
		PlatformFeeBps *int `json:"platform_fee_bps"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.PlatformFeeBps == nil {
		return response.BadRequest(c, "Missing required field: platform_fee_bps")
	}
	if err := h.Service.SetPlatformFee(c.Context(), *body.PlatformFeeBps); err != nil {
		switch err {
		case ErrInvalidFee, ErrFeeExceedsMaximum:
			return response.BadRequest(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Platform fee updated", fiber.Map{"platform_fee_bps": *body.PlatformFeeBps}, nil)
}

// PATCH /api/v1/params/min-increment — admin only.
func (h *Handlers) SetMinBidIncrement(c *fiber.Ctx) error {
	var body struct {
		MinBidIncrement *int64 `json:"min_bid_increment"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body.MinBidIncrement == nil {
		return response.BadRequest(c, "Missing required field: min_bid_increment")
	}
	if err := h.Service.SetMinBidIncrement(c.Context(), *body.MinBidIncrement); err != nil {
		if err == ErrInvalidBidIncrement {
			return response.BadRequest(c, err.Error())
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Minimum bid increment updated", fiber.Map{"min_bid_increment": *body.MinBidIncrement}, nil)
}
