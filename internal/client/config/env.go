package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mazury/mazury-client/internal/flagx"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "MAZURY_"

// loadDotenv loads the file named by -e/-env, or ./.env when present.
// Variables already set in the environment win over the file.
func loadDotenv() {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	_ = godotenv.Load()
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// parseEnv overlays Config with MAZURY_* environment variables. Panics on
// malformed values.
func parseEnv(cfg *Config) {
	loadDotenv()

	if v, ok := lookup("API_URL"); ok {
		cfg.APIURL = v
	}
	if v, ok := lookup("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := lookup("KEYSTORE"); ok {
		cfg.Keystore = v
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%sREQUEST_TIMEOUT: %w", EnvPrefix, err))
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup("ONLINE_CHECK_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%sONLINE_CHECK_INTERVAL: %w", EnvPrefix, err))
		}
		cfg.OnlineCheckInterval = d
	}
	if v, ok := lookup("COMMUNICATION_TO_CONSENT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sCOMMUNICATION_TO_CONSENT: %w", EnvPrefix, err))
		}
		cfg.CommunicationToConsent = b
	}
	if v, ok := lookup("SINGLE_FLIGHT_REFRESH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sSINGLE_FLIGHT_REFRESH: %w", EnvPrefix, err))
		}
		cfg.SingleFlightRefresh = b
	}
	if v, ok := lookup("SIWE_DOMAIN"); ok {
		cfg.SIWEDomain = v
	}
	if v, ok := lookup("SIWE_URI"); ok {
		cfg.SIWEURI = v
	}
	if v, ok := lookup("CHAIN_ID"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%sCHAIN_ID: %w", EnvPrefix, err))
		}
		cfg.ChainID = n
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}
