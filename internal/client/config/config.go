package config

import (
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Mazury CLI.
//
// Units: RequestTimeout and OnlineCheckInterval are time.Duration values
// (e.g., 15*time.Second).
//
// CommunicationToConsent makes the onboarding COMMUNICATION step continue to
// CONSENT. Without it the step leads back to PROFILETYPE.
type Config struct {
	APIURL              string
	DataDir             string
	Keystore            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SingleFlightRefresh bool

	SIWEDomain string
	SIWEURI    string
	ChainID    int

	CommunicationToConsent bool

	LogFormat string
	LogLevel  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.DataDir = "~/.mazury"
	c.Keystore = ""
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.SingleFlightRefresh = false
	c.SIWEDomain = "app.mazury.xyz"
	c.SIWEURI = "https://app.mazury.xyz"
	c.ChainID = 1
	c.CommunicationToConsent = true
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// DatabasePath is the SQLite file holding tokens and the onboarding snapshot.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "client.db")
}

// KeystorePath is the wallet keystore location, defaulting to the data dir.
func (c *Config) KeystorePath() string {
	if c.Keystore != "" {
		return c.Keystore
	}
	return filepath.Join(c.DataDir, "wallet.json")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
