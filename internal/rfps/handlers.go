package rfps

import (
	"encoding/json"
	"time"

	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// POST /api/v1/rfps
func (h *Handlers) CreateRFP(c *fiber.Ctx) error {
	buyer, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	var body struct {
		ProjectID         string    `json:"project_id"`
		DesiredAmount     int64     `json:"desired_amount"`
		MaxPricePerCredit int64     `json:"max_price_per_credit"`
		Requirements      string    `json:"requirements"`
		Deadline          time.Time `json:"deadline"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	id, err := h.Service.Create(c.Context(), buyer, CreateInput{
		ProjectID:         body.ProjectID,
		DesiredAmount:     body.DesiredAmount,
		MaxPricePerCredit: body.MaxPricePerCredit,
		Requirements:      body.Requirements,
		Deadline:          body.Deadline,
	})
	if err != nil {
		switch err {
		case ErrInvalidDesiredAmount, ErrInvalidMaxPrice, ErrDeadlineNotFuture, ErrMissingProject:
			return response.BadRequest(c, err.Error())
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "RFP created", fiber.Map{"rfp_id": id}, nil)
}

// GET /api/v1/rfps/open
func (h *Handlers) GetOpenRFPs(c *fiber.Ctx) error {
	out, err := h.Service.Open(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Open RFPs fetched", out, nil)
}

// GET /api/v1/rfps/mine
func (h *Handlers) GetMyRFPs(c *fiber.Ctx) error {
	buyer, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	out, err := h.Service.ForBuyer(c.Context(), buyer)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Buyer RFPs fetched", out, nil)
}
