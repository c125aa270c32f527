/*
Package config resolves the runtime configuration for the shop ledger.

PURPOSE:
  One place that knows the file locations, the shop's fixed economics,
  and the logging setup. Resolution order: compiled defaults, then a
  .env file if present, then real environment variables.

KEYS:
  SHOP_DATA_FILE       ledger CSV                (shop_data.csv)
  SHOP_BACKUP_FILE     backup slot               (shop_data_backup.csv)
  SHOP_ACCOUNTS_FILE   accounts JSON             (shop_accounts.json)
  SHOP_RENT            monthly rent              (1500)
  SHOP_UTILITIES       monthly utilities         (300)
  SHOP_COMMISSION_PCT  employee commission, 0-100 (30)
  SHOP_LOG_FORMAT      "text" or "json"          (text)
  SHOP_LOG_LEVEL       debug|info|warn|error     (info)
*/
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/chairside/shop-ledger/report"
)

// Config holds everything the CLI wires together.
type Config struct {
	DataFile     string
	BackupFile   string
	AccountsFile string

	Rent          decimal.Decimal
	Utilities     decimal.Decimal
	CommissionPct decimal.Decimal // 0-100, converted to a fraction for reporting

	LogFormat string
	LogLevel  string
}

// Load resolves configuration. A missing .env is fine; a commission
// outside 0-100 or a non-numeric amount is not.
func Load() (*Config, error) {
	// Best effort: absent .env just means defaults plus real env.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("SHOP_DATA_FILE", "shop_data.csv")
	v.SetDefault("SHOP_BACKUP_FILE", "shop_data_backup.csv")
	v.SetDefault("SHOP_ACCOUNTS_FILE", "shop_accounts.json")
	v.SetDefault("SHOP_RENT", "1500")
	v.SetDefault("SHOP_UTILITIES", "300")
	v.SetDefault("SHOP_COMMISSION_PCT", "30")
	v.SetDefault("SHOP_LOG_FORMAT", "text")
	v.SetDefault("SHOP_LOG_LEVEL", "info")
	v.AutomaticEnv()

	cfg := &Config{
		DataFile:     v.GetString("SHOP_DATA_FILE"),
		BackupFile:   v.GetString("SHOP_BACKUP_FILE"),
		AccountsFile: v.GetString("SHOP_ACCOUNTS_FILE"),
		LogFormat:    strings.ToLower(v.GetString("SHOP_LOG_FORMAT")),
		LogLevel:     strings.ToLower(v.GetString("SHOP_LOG_LEVEL")),
	}

	var err error
	if cfg.Rent, err = parseAmount(v.GetString("SHOP_RENT"), "SHOP_RENT"); err != nil {
		return nil, err
	}
	if cfg.Utilities, err = parseAmount(v.GetString("SHOP_UTILITIES"), "SHOP_UTILITIES"); err != nil {
		return nil, err
	}
	if cfg.CommissionPct, err = parseAmount(v.GetString("SHOP_COMMISSION_PCT"), "SHOP_COMMISSION_PCT"); err != nil {
		return nil, err
	}
	if cfg.CommissionPct.IsNegative() || cfg.CommissionPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("config: SHOP_COMMISSION_PCT must be between 0 and 100, got %s", cfg.CommissionPct)
	}
	return cfg, nil
}

func parseAmount(raw, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("config: %s: %q is not a number", key, raw)
	}
	return d, nil
}

// OwnerSettings converts the configured percent into the fraction the
// reporting engine multiplies with.
func (c *Config) OwnerSettings() report.OwnerSettings {
	return report.OwnerSettings{
		Rent:           c.Rent,
		Utilities:      c.Utilities,
		CommissionRate: c.CommissionPct.Div(decimal.NewFromInt(100)),
	}
}

// Logger builds the process logger per the configured format and level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
