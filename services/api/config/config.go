package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultMaxBodyBytes = 32 << 20

// Config holds environment-driven settings for the feature API.
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxBodyBytes   int64
	GinMode        string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   defaultMaxBodyBytes,
		GinMode:        "release",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if origins := strings.TrimSpace(os.Getenv("API_CORS_ORIGINS")); origins != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
		if len(cfg.AllowedOrigins) == 0 {
			return cfg, fmt.Errorf("invalid API_CORS_ORIGINS: %s", origins)
		}
	}

	if sizeStr := os.Getenv("API_MAX_BODY_BYTES"); sizeStr != "" {
		if size, err := strconv.ParseInt(sizeStr, 10, 64); err == nil && size > 0 {
			cfg.MaxBodyBytes = size
		} else {
			return cfg, fmt.Errorf("invalid API_MAX_BODY_BYTES: %s", sizeStr)
		}
	}

	if mode := strings.TrimSpace(os.Getenv("API_GIN_MODE")); mode != "" {
		switch mode {
		case "release", "debug", "test":
			cfg.GinMode = mode
		default:
			return cfg, fmt.Errorf("invalid API_GIN_MODE: %s", mode)
		}
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
