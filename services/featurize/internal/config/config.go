package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/building-feature-engineering/services/api/building"
)

const (
	defaultAPIURL         = "http://localhost:8080"
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime configuration for the featurize client.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	Transform      string
	InputPath      string
	OutputPath     string
	Local          bool
}

// Load reads configuration from environment variables (optionally .env)
// and command-line arguments.
func Load(args []string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.APIURL = strings.TrimSpace(os.Getenv("FEATURIZE_API_URL"))
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("FEATURIZE_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FEATURIZE_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	fs := flag.NewFlagSet("featurize", flag.ContinueOnError)
	fs.StringVar(&cfg.Transform, "transform", "diff", "transform to apply: diff, minmax or mean")
	fs.StringVar(&cfg.InputPath, "in", "", "path of the building payload (JSON)")
	fs.StringVar(&cfg.OutputPath, "out", "", "path of the result (default stdout)")
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the feature API")
	fs.BoolVar(&cfg.Local, "local", false, "apply the transform in-process instead of calling the API")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if _, ok := building.Lookup(cfg.Transform); !ok {
		return cfg, fmt.Errorf("unknown transform %q", cfg.Transform)
	}
	if cfg.InputPath == "" {
		return cfg, errors.New("-in is required")
	}

	return cfg, nil
}
