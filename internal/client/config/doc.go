// Package config loads runtime configuration for the Tealives CLI client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working
//     directory (see parseEnv). TEALIVES_API_URL overrides the API base URL.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the Tealives REST API
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//	-s bool     share one in-flight token refresh between concurrent requests
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "168h" or
// integer nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "api_base_url": "https://api.tealives.example/api",
//	  "geolocate_url": "https://ipapi.co/json/",
//	  "login_route": "/user/auth/",
//	  "database_dsn": "data/tealives.db",
//	  "city_cache_ttl": "168h",
//	  "single_flight_refresh": true,
//	  "log_level": "info"
//	}
package config
