package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   environment name: production, staging or development
//	-u string   explicit API base URL (overrides the environment default)
//	-d string   path of the local SQLite database
//	-t int      cache TTL in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-u", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	env := fs.String("e", string(cfg.Environment), "environment: production, staging or development")
	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path to local database file")
	cacheTTL := fs.Int("t", int(cfg.CacheTTL.Seconds()), "cache TTL (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Environment = Environment(*env)
	cfg.CacheTTL = time.Duration(*cacheTTL) * time.Second
}
