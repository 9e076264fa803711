package listings

import "errors"

var (
	ErrListingNotFound      = errors.New("Listing not found")
	ErrListingNotActive     = errors.New("Listing is not active")
	ErrAuctionEnded         = errors.New("Auction has ended")
	ErrAuctionNotEnded      = errors.New("Auction has not ended yet")
	ErrNotEnglish           = errors.New("Not an English auction")
	ErrNotDutch             = errors.New("Not a Dutch auction")
	ErrNotFixed             = errors.New("Not a fixed-price listing")
	ErrBidTooLow            = errors.New("Bid too low")
	ErrSellerBid            = errors.New("Seller cannot bid on own listing")
	ErrNotSeller            = errors.New("Only the seller can cancel")
	ErrCancelWithBids       = errors.New("Cannot cancel an auction with bids")
	ErrInsufficientPayment  = errors.New("Insufficient payment")
	ErrInsufficientCredits  = errors.New("Insufficient credit balance")
	ErrInvalidAmount        = errors.New("Amount must be positive")
	ErrInvalidStartingPrice = errors.New("Starting price must be positive")
	ErrInvalidPrice         = errors.New("Price must be positive")
	ErrDurationTooShort     = errors.New("Auction must run for at least one hour")
	ErrInvalidDuration      = errors.New("Duration must be positive")
	ErrReserveNotBelowStart = errors.New("Starting price must exceed reserve price")
	ErrInvalidDecrement     = errors.New("Price decrement must be positive")
	ErrIntervalTooShort     = errors.New("Decrement interval must be at least five minutes")
)
