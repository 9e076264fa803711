package listingevents

import (
	"strconv"

	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/listing-events/:listing_id
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	listingID, err := strconv.ParseUint(c.Params("listing_id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	events, svcErr := h.Service.ForListing(c.Context(), listingID)
	if svcErr != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing events fetched successfully", events, nil)
}
