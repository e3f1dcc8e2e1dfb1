package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the Tealives CLI.
type Config struct {
	// APIBaseURL is prefixed to every API path, e.g. "http://localhost:8000/api".
	APIBaseURL string
	// GeoLocateURL is the third-party IP geolocation endpoint.
	GeoLocateURL string
	// GeoLocateTimeout bounds one geolocation lookup.
	GeoLocateTimeout time.Duration
	// LoginRoute is where the user is sent after an unrecoverable auth failure.
	LoginRoute string
	// DatabaseDSN is the SQLite file holding tokens and the city cache.
	DatabaseDSN string
	// CityCacheTTL is how long a fetched city list stays usable offline.
	CityCacheTTL time.Duration
	// SingleFlightRefresh makes concurrent 401s wait for one shared refresh.
	SingleFlightRefresh bool
	LogLevel            string
}

const (
	DefaultAPIBaseURL   = "http://localhost:8000/api"
	DefaultGeoLocateURL = "https://ipapi.co/json/"
	DefaultGeoTimeout   = 5 * time.Second
	DefaultLoginRoute   = "/user/auth/"
	DefaultDatabaseDSN  = "data/tealives.db"
	DefaultCityCacheTTL = 7 * 24 * time.Hour
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.GeoLocateURL = DefaultGeoLocateURL
	c.GeoLocateTimeout = DefaultGeoTimeout
	c.LoginRoute = DefaultLoginRoute
	c.DatabaseDSN = DefaultDatabaseDSN
	c.CityCacheTTL = DefaultCityCacheTTL
	c.SingleFlightRefresh = false
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
