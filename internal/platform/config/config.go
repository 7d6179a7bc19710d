package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Import pipeline
	TallyInbox    string // directory scanned by the bulk import endpoint and CLI
	CacheDir      string
	CacheTTL      time.Duration
	OverridesFile string
	RatesFile     string
	RateLogFile   string
	FYStartMonth  time.Month

	// Optional API protection
	AuthEnabled       bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	RateLimit         string
}

// LoadConfig loads configuration from environment variables and a .env
// file if present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("TALLY_INBOX", "./data/inbox")
	viper.SetDefault("CACHE_DIR", "./data/cache")
	viper.SetDefault("CACHE_TTL", "720h")
	viper.SetDefault("OVERRIDES_FILE", "./data/master_overrides.json")
	viper.SetDefault("RATES_FILE", "./data/item_rate_overrides.json")
	viper.SetDefault("RATE_LOG_FILE", "./data/rate_change_log.json")
	viper.SetDefault("FY_START_MONTH", 4)
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "tallystock")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:   viper.GetString("PGSQL_URL"),
		Port:          viper.GetString("PORT"),
		IsProduction:  viper.GetBool("IS_PRODUCTION"),
		TallyInbox:    viper.GetString("TALLY_INBOX"),
		CacheDir:      viper.GetString("CACHE_DIR"),
		OverridesFile: viper.GetString("OVERRIDES_FILE"),
		RatesFile:     viper.GetString("RATES_FILE"),
		RateLogFile:   viper.GetString("RATE_LOG_FILE"),
		AuthEnabled:   viper.GetBool("AUTH_ENABLED"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		JWTIssuer:     viper.GetString("JWT_ISSUER"),
		RateLimit:     viper.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Running without persistence.")
	}

	cacheTTL, err := time.ParseDuration(viper.GetString("CACHE_TTL"))
	if err != nil {
		cacheTTL = 720 * time.Hour
		log.Printf("Warning: Invalid value for CACHE_TTL ('%s'). Defaulting to %s.\n", viper.GetString("CACHE_TTL"), cacheTTL)
	}
	cfg.CacheTTL = cacheTTL

	fyMonth := viper.GetInt("FY_START_MONTH")
	if fyMonth < 1 || fyMonth > 12 {
		log.Printf("Warning: Invalid value for FY_START_MONTH (%d). Defaulting to April.\n", fyMonth)
		fyMonth = 4
	}
	cfg.FYStartMonth = time.Month(fyMonth)

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", viper.GetString("JWT_EXPIRY_DURATION"), jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	if cfg.AuthEnabled && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: AUTH_ENABLED is set but JWT_SECRET uses the default insecure key.")
	}

	return cfg, nil
}
