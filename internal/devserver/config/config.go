// Package config handles configuration for the development backend:
// defaults, then MAZURY_DEV_* environment variables (optionally from a .env
// file), then command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - SIWEDomain: the domain sign-in messages must be issued for.
//   - AllowedOrigins: CORS origins.
type Config struct {
	Addr                         string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	SIWEDomain                   string
	AllowedOrigins               []string
	LogFormat                    string
	LogLevel                     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 5 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.SIWEDomain = "app.mazury.xyz"
	c.AllowedOrigins = []string{"*"}
	c.LogFormat = "zap"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the environment and flags, in
// that order of precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
