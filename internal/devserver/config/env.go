package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mazury/mazury-client/internal/flagx"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "MAZURY_DEV_"

func loadDotenv() {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	_ = godotenv.Load()
}

func getEnv(name string) (string, bool) {
	v := os.Getenv(EnvPrefix + name)
	return v, v != ""
}

func parseEnv(cfg *Config) {
	loadDotenv()

	if v, ok := getEnv("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := getEnv("JWT_SECRET"); ok {
		cfg.SecretKey = v
	}
	if v, ok := getEnv("ACCESS_TTL"); ok {
		cfg.AccessTokenValidityDuration = mustDuration("ACCESS_TTL", v)
	}
	if v, ok := getEnv("REFRESH_TTL"); ok {
		cfg.RefreshTokenValidityDuration = mustDuration("REFRESH_TTL", v)
	}
	if v, ok := getEnv("SIWE_DOMAIN"); ok {
		cfg.SIWEDomain = v
	}
	if v, ok := getEnv("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if v, ok := getEnv("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	return d
}
