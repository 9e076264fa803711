package listings

import (
	"encoding/json"
	"strconv"
	"time"

	"carbex-backend/internal/middleware"
	"carbex-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// respondServiceError maps state-machine errors to HTTP codes. Precondition
// violations are 400, authorization 403, missing listings 404 and stale or
// terminal state 409.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrListingNotFound:
		return response.Error(c, err.Error(), 404, nil)
	case ErrListingNotActive, ErrAuctionEnded, ErrAuctionNotEnded, ErrCancelWithBids:
		return response.Conflict(c, err.Error())
	case ErrNotSeller, ErrSellerBid:
		return response.Error(c, err.Error(), 403, nil)
	case ErrInvalidAmount, ErrInvalidStartingPrice, ErrInvalidPrice, ErrInvalidDuration,
		ErrDurationTooShort, ErrReserveNotBelowStart, ErrInvalidDecrement, ErrIntervalTooShort,
		ErrNotEnglish, ErrNotDutch, ErrNotFixed, ErrBidTooLow, ErrInsufficientPayment,
		ErrInsufficientCredits:
		return response.BadRequest(c, err.Error())
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}

// POST /api/v1/listings/english
func (h *Handlers) CreateEnglishAuction(c *fiber.Ctx) error {
	seller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	var body struct {
		ProjectID       string `json:"project_id"`
		Amount          int64  `json:"amount"`
		StartingPrice   int64  `json:"starting_price"`
		ReservePrice    int64  `json:"reserve_price"`
		DurationSeconds int64  `json:"duration_seconds"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ProjectID == "" {
		return response.BadRequest(c, "Missing required field: project_id")
	}
	id, err := h.Service.CreateEnglishAuction(c.Context(), seller, CreateEnglishInput{
		ProjectID:     body.ProjectID,
		Amount:        body.Amount,
		StartingPrice: body.StartingPrice,
		ReservePrice:  body.ReservePrice,
		Duration:      time.Duration(body.DurationSeconds) * time.Second,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.SuccessCreated(c, "English auction created", fiber.Map{"listing_id": id}, nil)
}

// POST /api/v1/listings/dutch
func (h *Handlers) CreateDutchAuction(c *fiber.Ctx) error {
	seller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	var body struct {
		ProjectID                string `json:"project_id"`
		Amount                   int64  `json:"amount"`
		StartingPrice            int64  `json:"starting_price"`
		ReservePrice             int64  `json:"reserve_price"`
		PriceDecrement           int64  `json:"price_decrement"`
		DecrementIntervalSeconds int64  `json:"decrement_interval_seconds"`
		DurationSeconds          int64  `json:"duration_seconds"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ProjectID == "" {
		return response.BadRequest(c, "Missing required field: project_id")
	}
	id, err := h.Service.CreateDutchAuction(c.Context(), seller, CreateDutchInput{
		ProjectID:         body.ProjectID,
		Amount:            body.Amount,
		StartingPrice:     body.StartingPrice,
		ReservePrice:      body.ReservePrice,
		PriceDecrement:    body.PriceDecrement,
		DecrementInterval: time.Duration(body.DecrementIntervalSeconds) * time.Second,
		Duration:          time.Duration(body.DurationSeconds) * time.Second,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.SuccessCreated(c, "Dutch auction created", fiber.Map{"listing_id": id}, nil)
}

// POST /api/v1/listings/fixed
func (h *Handlers) CreateFixedPriceListing(c *fiber.Ctx) error {
	seller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	var body struct {
		ProjectID string `json:"project_id"`
		Amount    int64  `json:"amount"`
		Price     int64  `json:"price"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ProjectID == "" {
		return response.BadRequest(c, "Missing required field: project_id")
	}
	id, err := h.Service.CreateFixedPriceListing(c.Context(), seller, CreateFixedInput{
		ProjectID: body.ProjectID,
		Amount:    body.Amount,
		Price:     body.Price,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.SuccessCreated(c, "Fixed-price listing created", fiber.Map{"listing_id": id}, nil)
}

// POST /api/v1/listings/:listing_id/bid
func (h *Handlers) PlaceBid(c *fiber.Ctx) error {
	bidder, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.Service.PlaceBid(c.Context(), bidder, listingID, body.Amount); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Bid placed", fiber.Map{"listing_id": listingID, "amount": body.Amount}, nil)
}

// POST /api/v1/listings/:listing_id/buy-dutch
func (h *Handlers) BuyDutchAuction(c *fiber.Ctx) error {
	buyer, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	var body struct {
		Payment int64 `json:"payment"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.Service.BuyDutchAuction(c.Context(), buyer, listingID, body.Payment); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Purchase complete", fiber.Map{"listing_id": listingID}, nil)
}

// POST /api/v1/listings/:listing_id/buy-fixed
func (h *Handlers) BuyFixedPrice(c *fiber.Ctx) error {
	buyer, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	var body struct {
		Payment int64 `json:"payment"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.Service.BuyFixedPrice(c.Context(), buyer, listingID, body.Payment); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Purchase complete", fiber.Map{"listing_id": listingID}, nil)
}

// POST /api/v1/listings/:listing_id/finalize
func (h *Handlers) FinalizeAuction(c *fiber.Ctx) error {
	caller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	if err := h.Service.FinalizeAuction(c.Context(), caller, listingID); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Auction finalized", fiber.Map{"listing_id": listingID}, nil)
}

// POST /api/v1/listings/:listing_id/cancel
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	caller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	if err := h.Service.CancelListing(c.Context(), caller, listingID); err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Listing cancelled", fiber.Map{"listing_id": listingID}, nil)
}

// GET /api/v1/listings/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	listing, err := h.Service.GetListing(c.Context(), listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// GET /api/v1/listings/:listing_id/bids
func (h *Handlers) GetListingBids(c *fiber.Ctx) error {
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	bids, err := h.Service.GetListingBids(c.Context(), listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Bids fetched successfully", bids, nil)
}

// GET /api/v1/listings/:listing_id/price
func (h *Handlers) GetCurrentPrice(c *fiber.Ctx) error {
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	price, err := h.Service.CurrentPrice(c.Context(), listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Price fetched successfully", fiber.Map{"listing_id": listingID, "price": price}, nil)
}

// GET /api/v1/listings/:listing_id/dutch-params
func (h *Handlers) GetDutchParams(c *fiber.Ctx) error {
	listingID, err := listingParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id format")
	}
	dp, err := h.Service.GetDutchParams(c.Context(), listingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return response.Success(c, "Dutch parameters fetched successfully", dp, nil)
}

// GET /api/v1/listings/mine
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	seller, ok := middleware.ActorID(c)
	if !ok {
		return response.Error(c, "Account not found in session", 403, nil)
	}
	out, err := h.Service.GetSellerListings(c.Context(), seller)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Seller listings fetched successfully", out, nil)
}

// GET /api/v1/listings/active
func (h *Handlers) GetActiveListings(c *fiber.Ctx) error {
	out, err := h.Service.GetActiveListings(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Active listings fetched", out, nil)
}

func listingParam(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("listing_id"), 10, 64)
}
