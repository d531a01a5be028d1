package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL including the /api prefix
//	-d string   path of the local session database
//	-t int      per-request timeout (seconds)
//	-i int      account status check interval (seconds)
//	-l string   log level
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	requestTimeout := fs.Int("t", 0, "request timeout (in seconds)")
	statusCheckInterval := fs.Int("i", 0, "account status check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// durations from JSON or env may carry sub-second parts; only explicit
	// flags replace them
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "i":
			cfg.StatusCheckInterval = time.Duration(*statusCheckInterval) * time.Second
		}
	})
}
