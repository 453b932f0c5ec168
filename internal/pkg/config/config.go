package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.)
// - default: Values common across all environments (timeouts, sweep cadence, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Engine  EngineConfig
	Pricing PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// EngineConfig drives the reservation lifecycle and the quote cache.
type EngineConfig struct {
	HoldTTL          time.Duration `envconfig:"HOLD_TTL" default:"30m"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	QuoteCacheTTL    time.Duration `envconfig:"QUOTE_CACHE_TTL" default:"15m"`
	QuoteHotLayerTTL time.Duration `envconfig:"QUOTE_HOT_LAYER_TTL" default:"2m"`
}

// PricingConfig carries the default fee set used when a hub has no price
// book entry, plus the margin applied on top of every route option.
type PricingConfig struct {
	MarginPercent      string `envconfig:"PRICING_MARGIN_PERCENT" default:"12.5"`
	DefaultAuthFee     string `envconfig:"PRICING_DEFAULT_AUTH_FEE" default:"75.00"`
	DefaultSewingFee   string `envconfig:"PRICING_DEFAULT_SEWING_FEE" default:"40.00"`
	DefaultQAFee       string `envconfig:"PRICING_DEFAULT_QA_FEE" default:"25.00"`
	DefaultNFCUnitFee  string `envconfig:"PRICING_DEFAULT_NFC_UNIT_FEE" default:"8.50"`
	DefaultTagUnitFee  string `envconfig:"PRICING_DEFAULT_TAG_UNIT_FEE" default:"3.00"`
	InternalRolloutFee string `envconfig:"PRICING_INTERNAL_ROLLOUT_FEE" default:"120.00"`
	WhiteGloveLegFee   string `envconfig:"PRICING_WHITE_GLOVE_LEG_FEE" default:"180.00"`
	DHLLegFee          string `envconfig:"PRICING_DHL_LEG_FEE" default:"62.00"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Engine: EngineConfig{
			HoldTTL:          30 * time.Minute,
			SweepInterval:    time.Minute,
			QuoteCacheTTL:    15 * time.Minute,
			QuoteHotLayerTTL: 2 * time.Minute,
		},
		Pricing: PricingConfig{
			MarginPercent:      "12.5",
			DefaultAuthFee:     "75.00",
			DefaultSewingFee:   "40.00",
			DefaultQAFee:       "25.00",
			DefaultNFCUnitFee:  "8.50",
			DefaultTagUnitFee:  "3.00",
			InternalRolloutFee: "120.00",
			WhiteGloveLegFee:   "180.00",
			DHLLegFee:          "62.00",
		},
	}
}
