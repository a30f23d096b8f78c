// Package config loads application configuration from file and environment.
package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string
		MaxConns int32 `mapstructure:"max_conns"`
	} `mapstructure:"postgres"`

	Ledger struct {
		// Enforcement is "strict" or "advisory"
		Enforcement string

		// LowStockThreshold is the remaining/assigned ratio below which a
		// warning is emitted
		LowStockThreshold float64 `mapstructure:"low_stock_threshold"`

		// LowStockRule optionally overrides the built-in alert expression
		LowStockRule string `mapstructure:"low_stock_rule"`
	} `mapstructure:"ledger"`

	Auth struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Log struct {
		Level       string
		Development bool
	} `mapstructure:"log"`
}

// Load reads configuration from the given file, with APP_* environment
// variables taking precedence. A missing file is not an error; everything
// has a default or can come from the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("postgres.dsn", "postgres://localhost:5432/sitestock?sslmode=disable")
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("ledger.enforcement", "strict")
	v.SetDefault("ledger.low_stock_threshold", 0.10)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
