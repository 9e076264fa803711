package listings

import (
	"context"
	"encoding/json"
	"time"

	"carbex-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Custodian moves credits between accounts. Calls run inside the listing
// transaction so escrow moves commit or roll back with the listing state.
type Custodian interface {
	BalanceOf(tx *gorm.DB, owner uuid.UUID, projectID string) (int64, error)
	Transfer(tx *gorm.DB, from, to uuid.UUID, projectID string, amount int64) error
}

// Ledger credits pending balances (refunds, proceeds, fees).
type Ledger interface {
	Credit(tx *gorm.DB, account uuid.UUID, amount int64) error
}

// Params reads the platform fee and minimum bid increment.
type Params interface {
	Get(tx *gorm.DB) (domain.MarketParams, error)
}

const fixedPriceHorizon = 365 * 24 * time.Hour

// Service is the listing/auction state machine. Every public operation runs
// in one DB transaction; any failure (custodian transfer included) rolls the
// whole operation back.
type Service struct {
	DB        *gorm.DB
	Custodian Custodian
	Ledger    Ledger
	Params    Params

	// EscrowAccount holds the credits of active listings; PlatformAccount
	// receives fees.
	EscrowAccount   uuid.UUID
	PlatformAccount uuid.UUID

	// Now is overridable for deterministic pricing in tests.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateEnglishInput struct {
	ProjectID     string
	Amount        int64
	StartingPrice int64
	ReservePrice  int64
	Duration      time.Duration
}

// CreateEnglishAuction escrows the seller's credits and opens an English
// auction. Returns the new listing id.
func (s *Service) CreateEnglishAuction(ctx context.Context, seller uuid.UUID, in CreateEnglishInput) (uint64, error) {
	if in.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if in.StartingPrice <= 0 {
		return 0, ErrInvalidStartingPrice
	}
	if in.Duration < time.Hour {
		return 0, ErrDurationTooShort
	}
	now := s.now()
	return s.create(ctx, seller, domain.Listing{
		ProjectID:     in.ProjectID,
		SellerID:      seller,
		Amount:        in.Amount,
		StartingPrice: in.StartingPrice,
		ReservePrice:  in.ReservePrice,
		CurrentPrice:  in.StartingPrice,
		AuctionType:   domain.AuctionEnglish,
		Status:        domain.ListingActive,
		StartTime:     now,
		EndTime:       now.Add(in.Duration),
	}, nil)
}

type CreateDutchInput struct {
	ProjectID         string
	Amount            int64
	StartingPrice     int64
	ReservePrice      int64
	PriceDecrement    int64
	DecrementInterval time.Duration
	Duration          time.Duration
}

// CreateDutchAuction escrows the seller's credits and opens a declining-price
// auction.
func (s *Service) CreateDutchAuction(ctx context.Context, seller uuid.UUID, in CreateDutchInput) (uint64, error) {
	if in.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if in.StartingPrice <= in.ReservePrice {
		return 0, ErrReserveNotBelowStart
	}
	if in.PriceDecrement <= 0 {
		return 0, ErrInvalidDecrement
	}
	if in.DecrementInterval < 5*time.Minute {
		return 0, ErrIntervalTooShort
	}
	if in.Duration <= 0 {
		return 0, ErrInvalidDuration
	}
	now := s.now()
	return s.create(ctx, seller, domain.Listing{
		ProjectID:     in.ProjectID,
		SellerID:      seller,
		Amount:        in.Amount,
		StartingPrice: in.StartingPrice,
		ReservePrice:  in.ReservePrice,
		CurrentPrice:  in.StartingPrice,
		AuctionType:   domain.AuctionDutch,
		Status:        domain.ListingActive,
		StartTime:     now,
		EndTime:       now.Add(in.Duration),
	}, &domain.DutchParams{
		PriceDecrement:    in.PriceDecrement,
		DecrementInterval: int64(in.DecrementInterval / time.Second),
	})
}

type CreateFixedInput struct {
	ProjectID string
	Amount    int64
	Price     int64
}

// CreateFixedPriceListing escrows the seller's credits at a fixed asking
// price. Fixed listings have no natural expiry; the end time is a long
// horizon.
func (s *Service) CreateFixedPriceListing(ctx context.Context, seller uuid.UUID, in CreateFixedInput) (uint64, error) {
	if in.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if in.Price <= 0 {
		return 0, ErrInvalidPrice
	}
	now := s.now()
	return s.create(ctx, seller, domain.Listing{
		ProjectID:     in.ProjectID,
		SellerID:      seller,
		Amount:        in.Amount,
		StartingPrice: in.Price,
		CurrentPrice:  in.Price,
		AuctionType:   domain.AuctionFixed,
		Status:        domain.ListingActive,
		StartTime:     now,
		EndTime:       now.Add(fixedPriceHorizon),
	}, nil)
}

// create inserts the listing (and Dutch params), moves the credits into
// escrow and appends the CREATED event — one transaction, all or nothing.
func (s *Service) create(ctx context.Context, seller uuid.UUID, listing domain.Listing, dp *domain.DutchParams) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bal, err := s.Custodian.BalanceOf(tx, seller, listing.ProjectID)
		if err != nil {
			return err
		}
		if bal < listing.Amount {
			return ErrInsufficientCredits
		}
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		if dp != nil {
			dp.ListingID = listing.ListingID
			if err := tx.Create(dp).Error; err != nil {
				return err
			}
		}
		if err := s.Custodian.Transfer(tx, seller, s.EscrowAccount, listing.ProjectID, listing.Amount); err != nil {
			return err
		}
		return s.appendEvent(tx, listing.ListingID, domain.EventListingCreated, &seller, map[string]interface{}{
			"auction_type":   listing.AuctionType,
			"amount":         listing.Amount,
			"starting_price": listing.StartingPrice,
		})
	})
	if err != nil {
		return 0, err
	}
	return listing.ListingID, nil
}

// PlaceBid accepts an English-auction bid. The previous highest bid, if any,
// becomes withdrawable by its bidder through the ledger.
func (s *Service) PlaceBid(ctx context.Context, bidder uuid.UUID, listingID uint64, amount int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.load(tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingActive {
			return ErrListingNotActive
		}
		if listing.AuctionType != domain.AuctionEnglish {
			return ErrNotEnglish
		}
		now := s.now()
		if now.After(listing.EndTime) {
			return ErrAuctionEnded
		}
		if bidder == listing.SellerID {
			return ErrSellerBid
		}
		p, err := s.Params.Get(tx)
		if err != nil {
			return err
		}
		if amount < listing.CurrentPrice+p.MinBidIncrement {
			return ErrBidTooLow
		}

		// Refund-by-credit, never direct payment: the outbid bidder pulls
		// the funds back through the ledger.
		if listing.HighestBidder != nil {
			if err := s.Ledger.Credit(tx, *listing.HighestBidder, listing.CurrentPrice); err != nil {
				return err
			}
		}

		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingActive).
			Updates(map[string]interface{}{
				"highest_bidder": bidder,
				"current_price":  amount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrListingNotActive
		}

		if err := tx.Create(&domain.Bid{
			ListingID: listing.ListingID,
			Bidder:    bidder,
			Amount:    amount,
			CreatedAt: now,
		}).Error; err != nil {
			return err
		}
		return s.appendEvent(tx, listing.ListingID, domain.EventBidPlaced, &bidder, map[string]interface{}{
			"amount": amount,
		})
	})
}

// BuyDutchAuction settles a Dutch listing at its live computed price. Excess
// payment is credited back to the buyer, never kept.
func (s *Service) BuyDutchAuction(ctx context.Context, buyer uuid.UUID, listingID uint64, payment int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.load(tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingActive {
			return ErrListingNotActive
		}
		if listing.AuctionType != domain.AuctionDutch {
			return ErrNotDutch
		}
		now := s.now()
		if now.After(listing.EndTime) {
			return ErrAuctionEnded
		}
		var dp domain.DutchParams
		if err := tx.Where("listing_id = ?", listing.ListingID).First(&dp).Error; err != nil {
			return err
		}
		price := dutchPrice(listing, dp, now)
		if payment < price {
			return ErrInsufficientPayment
		}
		if err := s.complete(tx, listing, buyer, price); err != nil {
			return err
		}
		if payment > price {
			return s.Ledger.Credit(tx, buyer, payment-price)
		}
		return nil
	})
}

// BuyFixedPrice settles a fixed-price listing at its asking price.
func (s *Service) BuyFixedPrice(ctx context.Context, buyer uuid.UUID, listingID uint64, payment int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.load(tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingActive {
			return ErrListingNotActive
		}
		if listing.AuctionType != domain.AuctionFixed {
			return ErrNotFixed
		}
		price := listing.CurrentPrice
		if payment < price {
			return ErrInsufficientPayment
		}
		if err := s.complete(tx, listing, buyer, price); err != nil {
			return err
		}
		if payment > price {
			return s.Ledger.Credit(tx, buyer, payment-price)
		}
		return nil
	})
}

// FinalizeAuction resolves an English auction past its end time. Anyone may
// call it; this is how deadline expiry is pushed into the state machine.
// With no bids, or a highest bid under the reserve, the listing cancels and
// the credits return to the seller.
func (s *Service) FinalizeAuction(ctx context.Context, caller uuid.UUID, listingID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.load(tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingActive {
			return ErrListingNotActive
		}
		if listing.AuctionType != domain.AuctionEnglish {
			return ErrNotEnglish
		}
		if !s.now().After(listing.EndTime) {
			return ErrAuctionNotEnded
		}
		if listing.HighestBidder == nil || listing.CurrentPrice < listing.ReservePrice {
			return s.cancel(tx, listing, &caller, "reserve not met")
		}
		return s.complete(tx, listing, *listing.HighestBidder, listing.CurrentPrice)
	})
}

// CancelListing returns escrowed credits to the seller. English auctions
// with a standing bid cannot be cancelled unilaterally.
func (s *Service) CancelListing(ctx context.Context, caller uuid.UUID, listingID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := s.load(tx, listingID)
		if err != nil {
			return err
		}
		if listing.Status != domain.ListingActive {
			return ErrListingNotActive
		}
		if caller != listing.SellerID {
			return ErrNotSeller
		}
		if listing.AuctionType == domain.AuctionEnglish && listing.HighestBidder != nil {
			return ErrCancelWithBids
		}
		return s.cancel(tx, listing, &caller, "cancelled by seller")
	})
}

// CurrentPrice returns the live price of a listing. For Dutch listings the
// price is recomputed from the decay schedule; for all others the stored
// price is authoritative. Pure read, safe to call any number of times.
func (s *Service) CurrentPrice(ctx context.Context, listingID uint64) (int64, error) {
	db := s.DB.WithContext(ctx)
	listing, err := s.load(db, listingID)
	if err != nil {
		return 0, err
	}
	if listing.AuctionType != domain.AuctionDutch {
		return listing.CurrentPrice, nil
	}
	var dp domain.DutchParams
	if err := db.Where("listing_id = ?", listing.ListingID).First(&dp).Error; err != nil {
		return 0, err
	}
	return dutchPrice(listing, dp, s.now()), nil
}

// complete flips the listing to its terminal completed state, delivers the
// escrowed credits to the winner and splits the price between seller and
// platform in the ledger.
//
// The guarded status update is the single-entry lock: a re-entered or
// concurrent operation on the same listing matches zero rows and aborts
// before any funds move.
func (s *Service) complete(tx *gorm.DB, listing domain.Listing, winner uuid.UUID, price int64) error {
	p, err := s.Params.Get(tx)
	if err != nil {
		return err
	}
	fee := p.PlatformFee(price)
	proceeds := price - fee

	res := tx.Model(&domain.Listing{}).
		Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingActive).
		Updates(map[string]interface{}{
			"status":         domain.ListingCompleted,
			"current_price":  price,
			"highest_bidder": winner,
			"winner":         winner,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotActive
	}

	if err := s.Custodian.Transfer(tx, s.EscrowAccount, winner, listing.ProjectID, listing.Amount); err != nil {
		return err
	}
	if proceeds > 0 {
		if err := s.Ledger.Credit(tx, listing.SellerID, proceeds); err != nil {
			return err
		}
	}
	if fee > 0 {
		if err := s.Ledger.Credit(tx, s.PlatformAccount, fee); err != nil {
			return err
		}
	}
	return s.appendEvent(tx, listing.ListingID, domain.EventListingCompleted, &winner, map[string]interface{}{
		"winner":          winner.String(),
		"price":           price,
		"fee":             fee,
		"seller_proceeds": proceeds,
	})
}

// cancel flips the listing to its terminal cancelled state and returns the
// escrowed credits to the seller. A standing highest bid (reserve-not-met
// finalization) is refunded through the ledger. Same guarded update as
// complete.
func (s *Service) cancel(tx *gorm.DB, listing domain.Listing, actor *uuid.UUID, reason string) error {
	res := tx.Model(&domain.Listing{}).
		Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingActive).
		Update("status", domain.ListingCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotActive
	}
	if listing.HighestBidder != nil {
		if err := s.Ledger.Credit(tx, *listing.HighestBidder, listing.CurrentPrice); err != nil {
			return err
		}
	}
	if err := s.Custodian.Transfer(tx, s.EscrowAccount, listing.SellerID, listing.ProjectID, listing.Amount); err != nil {
		return err
	}
	return s.appendEvent(tx, listing.ListingID, domain.EventListingCancelled, actor, map[string]interface{}{
		"reason": reason,
		"amount": listing.Amount,
	})
}

func (s *Service) load(tx *gorm.DB, listingID uint64) (domain.Listing, error) {
	var listing domain.Listing
	err := tx.Where("listing_id = ?", listingID).First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return listing, ErrListingNotFound
	}
	return listing, err
}

func (s *Service) appendEvent(tx *gorm.DB, listingID uint64, eventType string, actor *uuid.UUID, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		Actor:     actor,
		EventData: datatypes.JSON(b),
	}).Error
}
