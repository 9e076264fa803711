package config

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	SessionSecret string
	DatabaseURL   string
	RedisURL      string

	// Marketplace accounts. The escrow account holds credits of active
	// listings; the platform account receives fees.
	EscrowAccountID   uuid.UUID
	PlatformAccountID uuid.UUID

	// Defaults seeded into MarketParams on first boot.
	PlatformFeeBps  int
	MinBidIncrement int64

	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	feeBps := viper.GetInt("PLATFORM_FEE_BPS")
	if feeBps == 0 {
		feeBps = 250
	}
	minInc := viper.GetInt64("MIN_BID_INCREMENT")
	if minInc == 0 {
		minInc = 1
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		EscrowAccountID:     accountID(viper.GetString("ESCROW_ACCOUNT_ID"), defaultEscrowAccount),
		PlatformAccountID:   accountID(viper.GetString("PLATFORM_ACCOUNT_ID"), defaultPlatformAccount),
		PlatformFeeBps:      feeBps,
		MinBidIncrement:     minInc,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// Well-known fallback accounts for dev/test environments. Production should
// configure both explicitly.
const (
	defaultEscrowAccount   = "3f1c0000-0000-4000-8000-000000000001"
	defaultPlatformAccount = "3f1c0000-0000-4000-8000-000000000002"
)

func accountID(s, fallback string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil && id != uuid.Nil {
		return id
	}
	return uuid.MustParse(fallback)
}
