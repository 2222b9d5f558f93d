package config

import (
	"errors"

	"github.com/dmitrijs2005/printshop/internal/flagx"
)

const envPrefix = "PRINTSHOP_"

// parseEnv loads the given .env files and overlays PRINTSHOP_* variables.
// Variables already in the process environment win over .env entries.
func parseEnv(config *Config, dotenv ...string) error {
	if err := flagx.LoadDotEnv(dotenv...); err != nil {
		return err
	}

	flagx.EnvString(envPrefix+"HTTP_ADDR", &config.HTTPAddr)
	flagx.EnvString(envPrefix+"GRPC_ADDR", &config.GRPCAddr)
	flagx.EnvString(envPrefix+"STORAGE", &config.StorageBackend)
	flagx.EnvString(envPrefix+"DATABASE_DSN", &config.DatabaseDSN)
	flagx.EnvString(envPrefix+"MONGO_URI", &config.MongoURI)
	flagx.EnvString(envPrefix+"MONGO_DATABASE", &config.MongoDatabase)
	flagx.EnvString(envPrefix+"SECRET_KEY", &config.SecretKey)
	flagx.EnvString(envPrefix+"SEED_FILE", &config.SeedFile)
	flagx.EnvString(envPrefix+"ADMIN_NAME", &config.AdminName)
	flagx.EnvString(envPrefix+"ADMIN_EMAIL", &config.AdminEmail)
	flagx.EnvString(envPrefix+"ADMIN_PASSWORD", &config.AdminPassword)
	flagx.EnvString(envPrefix+"LOG_LEVEL", &config.LogLevel)

	return errors.Join(
		flagx.EnvDuration(envPrefix+"STANDARD_TOKEN_TTL", &config.StandardTokenTTL),
		flagx.EnvDuration(envPrefix+"ADMIN_TOKEN_TTL", &config.AdminTokenTTL),
		flagx.EnvDuration(envPrefix+"SHUTDOWN_TIMEOUT", &config.ShutdownTimeout),
		flagx.EnvInt(envPrefix+"LOGIN_RATE_PER_MINUTE", &config.LoginRatePerMinute),
		flagx.EnvInt(envPrefix+"LOGIN_BURST", &config.LoginBurst),
		flagx.EnvInt(envPrefix+"BCRYPT_COST", &config.BcryptCost),
		flagx.EnvBool(envPrefix+"TRUST_PROXY", &config.TrustProxy),
	)
}
