package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/printshop/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string    HTTP bind address (":8080")
//	-g string    gRPC bind address (":50051")
//	-b string    storage backend: postgres, mongo or memory
//	-d string    PostgreSQL DSN
//	-m string    MongoDB URI
//	-n string    MongoDB database
//	-s string    token signing secret
//	-t duration  standard token lifetime ("24h")
//	-T duration  admin token lifetime ("168h")
//	-f string    YAML seed file
//	-l string    log level
//
// os.Args is filtered first so flags meant for other layers (-c) do not
// break parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-b", "-d", "-m", "-n", "-s", "-t", "-T", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (postgres|mongo|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.StandardTokenTTL, "t", config.StandardTokenTTL, "standard token lifetime")
	fs.DurationVar(&config.AdminTokenTTL, "T", config.AdminTokenTTL, "admin token lifetime")
	fs.StringVar(&config.SeedFile, "f", config.SeedFile, "YAML seed file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(args)
}
