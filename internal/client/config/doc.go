// Package config loads runtime configuration for the Mazury CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: a dotenv file (-e/-env, else ./.env if present) is loaded
//     with godotenv, then MAZURY_* variables are read (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-d string   data directory (database, default keystore)
//	-k string   wallet keystore file
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_url": "http://127.0.0.1:8080",
//	  "data_dir": "~/.mazury",
//	  "request_timeout": "15s",
//	  "single_flight_refresh": true,
//	  "log_format": "zap",
//	  "log_level": "debug"
//	}
//
// # Environment
//
//	MAZURY_API_URL, MAZURY_DATA_DIR, MAZURY_KEYSTORE, MAZURY_REQUEST_TIMEOUT,
//	MAZURY_ONLINE_CHECK_INTERVAL, MAZURY_COMMUNICATION_TO_CONSENT,
//	MAZURY_SINGLE_FLIGHT_REFRESH, MAZURY_SIWE_DOMAIN, MAZURY_SIWE_URI,
//	MAZURY_CHAIN_ID, MAZURY_LOG_FORMAT, MAZURY_LOG_LEVEL
package config
