package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfig is a DTO read by cleanenv. Variables that are not set leave the
// prefilled value untouched.
type EnvConfig struct {
	APIBaseURL          string        `env:"TEALIVES_API_URL" env-description:"base URL of the REST API"`
	GeoLocateURL        string        `env:"TEALIVES_GEOLOCATE_URL" env-description:"IP geolocation endpoint"`
	GeoLocateTimeout    time.Duration `env:"TEALIVES_GEOLOCATE_TIMEOUT" env-description:"IP geolocation request timeout"`
	LoginRoute          string        `env:"TEALIVES_LOGIN_ROUTE" env-description:"login entry point"`
	DatabaseDSN         string        `env:"TEALIVES_DB" env-description:"local SQLite database path"`
	CityCacheTTL        time.Duration `env:"TEALIVES_CITY_CACHE_TTL" env-description:"city list cache lifetime"`
	SingleFlightRefresh bool          `env:"TEALIVES_SINGLE_FLIGHT_REFRESH" env-description:"share concurrent token refreshes"`
	LogLevel            string        `env:"TEALIVES_LOG_LEVEL" env-description:"log level"`
}

// parseEnv loads dotenvPath into the process environment (a missing file is
// fine, variables already set win) and overlays the TEALIVES_* variables.
//
// Panics on a malformed .env file or an unparsable variable, like the other
// loaders of this package.
func parseEnv(cfg *Config, dotenvPath string) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	ec := EnvConfig{
		APIBaseURL:          cfg.APIBaseURL,
		GeoLocateURL:        cfg.GeoLocateURL,
		GeoLocateTimeout:    cfg.GeoLocateTimeout,
		LoginRoute:          cfg.LoginRoute,
		DatabaseDSN:         cfg.DatabaseDSN,
		CityCacheTTL:        cfg.CityCacheTTL,
		SingleFlightRefresh: cfg.SingleFlightRefresh,
		LogLevel:            cfg.LogLevel,
	}

	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = ec.APIBaseURL
	cfg.GeoLocateURL = ec.GeoLocateURL
	cfg.GeoLocateTimeout = ec.GeoLocateTimeout
	cfg.LoginRoute = ec.LoginRoute
	cfg.DatabaseDSN = ec.DatabaseDSN
	cfg.CityCacheTTL = ec.CityCacheTTL
	cfg.SingleFlightRefresh = ec.SingleFlightRefresh
	cfg.LogLevel = ec.LogLevel
}
