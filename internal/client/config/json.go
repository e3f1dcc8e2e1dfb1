package config

import (
	"encoding/json"
	"os"

	"github.com/tealives/tealives-client/internal/flagx"
	"github.com/tealives/tealives-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	GeoLocateURL        string          `json:"geolocate_url"`
	GeoLocateTimeout    *timex.Duration `json:"geolocate_timeout"`
	LoginRoute          string          `json:"login_route"`
	DatabaseDSN         string          `json:"database_dsn"`
	CityCacheTTL        *timex.Duration `json:"city_cache_ttl"`
	SingleFlightRefresh *bool           `json:"single_flight_refresh"`
	LogLevel            string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config in args. Without such a flag nothing happens.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.GeoLocateURL != "" {
		cfg.GeoLocateURL = jc.GeoLocateURL
	}
	if jc.GeoLocateTimeout != nil {
		cfg.GeoLocateTimeout = jc.GeoLocateTimeout.Duration
	}
	if jc.LoginRoute != "" {
		cfg.LoginRoute = jc.LoginRoute
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.CityCacheTTL != nil {
		cfg.CityCacheTTL = jc.CityCacheTTL.Duration
	}
	if jc.SingleFlightRefresh != nil {
		cfg.SingleFlightRefresh = *jc.SingleFlightRefresh
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
