package config

import (
	"flag"

	"github.com/tealives/tealives-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the REST API
//	-d string   local database path
//	-l string   log level
//	-s bool     single-flight token refresh
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c) do not break parsing. Panics on invalid values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.SingleFlightRefresh, "s", cfg.SingleFlightRefresh, "share one token refresh between concurrent requests")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
