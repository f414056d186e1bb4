package config

import (
	"encoding/json"
	"os"

	"github.com/mazury/mazury-client/internal/flagx"
	"github.com/mazury/mazury-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIURL                 string          `json:"api_url"`
	DataDir                string          `json:"data_dir"`
	Keystore               string          `json:"keystore"`
	RequestTimeout         *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval    *timex.Duration `json:"online_check_interval"`
	SingleFlightRefresh    *bool           `json:"single_flight_refresh"`
	SIWEDomain             string          `json:"siwe_domain"`
	SIWEURI                string          `json:"siwe_uri"`
	ChainID                int             `json:"chain_id"`
	CommunicationToConsent *bool           `json:"communication_to_consent"`
	LogFormat              string          `json:"log_format"`
	LogLevel               string          `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.Keystore, jc.Keystore)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SingleFlightRefresh != nil {
		cfg.SingleFlightRefresh = *jc.SingleFlightRefresh
	}
	setString(&cfg.SIWEDomain, jc.SIWEDomain)
	setString(&cfg.SIWEURI, jc.SIWEURI)
	if jc.ChainID != 0 {
		cfg.ChainID = jc.ChainID
	}
	if jc.CommunicationToConsent != nil {
		cfg.CommunicationToConsent = *jc.CommunicationToConsent
	}
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
}
