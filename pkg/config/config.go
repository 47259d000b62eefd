package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CashAccountCodes lists the chart-of-accounts codes the cash flow
	// statement treats as cash and cash equivalents.
	CashAccountCodes []string

	// RateLimit uses the limiter formatted syntax, e.g. "100-M" for one
	// hundred requests per minute. Empty disables rate limiting.
	RateLimit string

	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and a .env file if
// present. Environment variables override .env values.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CASH_ACCOUNT_CODES", "1000,1010")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    viper.GetBool("ENABLE_DB_CHECK"),
		CashAccountCodes: splitList(viper.GetString("CASH_ACCOUNT_CODES")),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		AllowedOrigins:   splitList(viper.GetString("ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if len(cfg.CashAccountCodes) == 0 {
		log.Println("Warning: CASH_ACCOUNT_CODES is empty; the cash flow statement will report no movements.")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
