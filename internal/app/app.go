package app

import (
	"carbex-backend/internal/auth"
	"carbex-backend/internal/config"
	"carbex-backend/internal/custody"
	"carbex-backend/internal/database"
	"carbex-backend/internal/health"
	"carbex-backend/internal/ledger"
	"carbex-backend/internal/listingevents"
	"carbex-backend/internal/listings"
	"carbex-backend/internal/middleware"
	"carbex-backend/internal/params"
	"carbex-backend/internal/rfps"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	var dbPinger health.DBPinger
	if db != nil {
		dbPinger = &gormDBPinger{db: db}
	}
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             dbPinger,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", healthHandlers.Dashboard)
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Auth (no auth middleware)
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil {
		paramsService := &params.Service{DB: db}
		if err := paramsService.Ensure(cfg.PlatformFeeBps, cfg.MinBidIncrement); err != nil {
			return nil, nil, nil, err
		}
		custodyService := &custody.Service{DB: db}
		ledgerService := &ledger.Service{DB: db, Payouts: ledger.RecordedPayouts{}}
		listingService := &listings.Service{
			DB:              db,
			Custodian:       custodyService,
			Ledger:          ledgerService,
			Params:          paramsService,
			EscrowAccount:   cfg.EscrowAccountID,
			PlatformAccount: cfg.PlatformAccountID,
		}
		rfpService := &rfps.Service{DB: db}
		eventsService := &listingevents.Service{DB: db}

		// Params: public read, admin-only writes
		paramsHandlers := &params.Handlers{Service: paramsService}
		app.Get("/api/v1/params", paramsHandlers.GetParams)
		paramsGroup := app.Group("/api/v1/params", middleware.RequireAuth(), middleware.RequireAdmin())
		paramsGroup.Patch("/fee", paramsHandlers.SetPlatformFee)
		paramsGroup.Patch("/min-increment", paramsHandlers.SetMinBidIncrement)

		// Listings: static routes before :listing_id routes
		listingHandlers := &listings.Handlers{Service: listingService}
		listingGroup := app.Group("/api/v1/listings", middleware.RequireAuth())
		listingGroup.Post("/english", listingHandlers.CreateEnglishAuction)
		listingGroup.Post("/dutch", listingHandlers.CreateDutchAuction)
		listingGroup.Post("/fixed", listingHandlers.CreateFixedPriceListing)
		listingGroup.Get("/mine", listingHandlers.GetMyListings)
		listingGroup.Get("/active", listingHandlers.GetActiveListings)
		listingGroup.Post("/:listing_id/bid", listingHandlers.PlaceBid)
		listingGroup.Post("/:listing_id/buy-dutch", listingHandlers.BuyDutchAuction)
		listingGroup.Post("/:listing_id/buy-fixed", listingHandlers.BuyFixedPrice)
		listingGroup.Post("/:listing_id/finalize", listingHandlers.FinalizeAuction)
		listingGroup.Post("/:listing_id/cancel", listingHandlers.CancelListing)
		listingGroup.Get("/:listing_id/bids", listingHandlers.GetListingBids)
		listingGroup.Get("/:listing_id/price", listingHandlers.GetCurrentPrice)
		listingGroup.Get("/:listing_id/dutch-params", listingHandlers.GetDutchParams)
		listingGroup.Get("/:listing_id", listingHandlers.GetListing)

		// Ledger
		ledgerHandlers := &ledger.Handlers{Service: ledgerService}
		ledgerGroup := app.Group("/api/v1/ledger", middleware.RequireAuth())
		ledgerGroup.Post("/withdraw", ledgerHandlers.Withdraw)
		ledgerGroup.Get("/balance", ledgerHandlers.Balance)

		// Holdings
		custodyHandlers := &custody.Handlers{Service: custodyService}
		app.Get("/api/v1/holdings", middleware.RequireAuth(), custodyHandlers.ViewHoldings)

		// Request board
		rfpHandlers := &rfps.Handlers{Service: rfpService}
		rfpGroup := app.Group("/api/v1/rfps", middleware.RequireAuth())
		rfpGroup.Post("/", rfpHandlers.CreateRFP)
		rfpGroup.Get("/open", rfpHandlers.GetOpenRFPs)
		rfpGroup.Get("/mine", rfpHandlers.GetMyRFPs)

		// Audit trail
		eventsHandlers := &listingevents.Handlers{Service: eventsService}
		app.Get("/api/v1/listing-events/:listing_id", middleware.RequireAuth(), eventsHandlers.GetListingEvents)
	}

	return app, db, rdb, nil
}
