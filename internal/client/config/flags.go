package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL (default from Config)
//	-d string   local database path (default from Config)
//	-i int      profile refresh interval in seconds (default from Config)
//
// args are filtered with flagx.FilterArgs so flags owned by other components
// do not interfere.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	refreshInterval := fs.Int("i", int(cfg.ProfileRefreshInterval.Seconds()), "profile refresh interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// a sub-second interval from JSON or env must survive an absent -i
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.ProfileRefreshInterval = time.Duration(*refreshInterval) * time.Second
		}
	})
}
