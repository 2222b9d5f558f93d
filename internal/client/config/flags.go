package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/printshop/internal/flagx"
)

// parseFlags overlays command-line flags onto cfg.
//
//	-a string    server base URL
//	-d string    session database file
//	-t duration  per-request timeout ("10s")
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	return fs.Parse(args)
}
