package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/printshop/internal/flagx"
	"github.com/dmitrijs2005/printshop/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "24h" strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCAddr           string         `json:"grpc_addr"`
	StorageBackend     string         `json:"storage"`
	DatabaseDSN        string         `json:"database_dsn"`
	MongoURI           string         `json:"mongo_uri"`
	MongoDatabase      string         `json:"mongo_database"`
	SecretKey          string         `json:"secret_key"`
	StandardTokenTTL   timex.Duration `json:"standard_token_ttl"`
	AdminTokenTTL      timex.Duration `json:"admin_token_ttl"`
	SeedFile           string         `json:"seed_file"`
	AdminName          string         `json:"admin_name"`
	AdminEmail         string         `json:"admin_email"`
	AdminPassword      string         `json:"admin_password"`
	LoginRatePerMinute int            `json:"login_rate_per_minute"`
	LoginBurst         int            `json:"login_burst"`
	TrustProxy         *bool          `json:"trust_proxy"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	LogLevel           string         `json:"log_level"`
	BcryptCost         int            `json:"bcrypt_cost"`
}

// parseJson overlays the file named by -c/-config onto config. Fields absent
// from the file keep their current value. No flag means nothing to load.
func parseJson(config *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SeedFile, c.SeedFile)
	setString(&config.AdminName, c.AdminName)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.LogLevel, c.LogLevel)

	if c.StandardTokenTTL.Duration > 0 {
		config.StandardTokenTTL = c.StandardTokenTTL.Duration
	}
	if c.AdminTokenTTL.Duration > 0 {
		config.AdminTokenTTL = c.AdminTokenTTL.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LoginRatePerMinute > 0 {
		config.LoginRatePerMinute = c.LoginRatePerMinute
	}
	if c.LoginBurst > 0 {
		config.LoginBurst = c.LoginBurst
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.TrustProxy != nil {
		config.TrustProxy = *c.TrustProxy
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
