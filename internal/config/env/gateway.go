package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"slot_backend/internal/config"
)

const (
	requestTimeoutEnvName = "REQUEST_TIMEOUT"
	rateLimitEnvName      = "RATE_LIMIT_PER_SECOND"
	rateBurstEnvName      = "RATE_LIMIT_BURST"
	allowedOriginsEnvName = "ALLOWED_ORIGINS"

	defaultRequestTimeout = 5 * time.Second
	defaultRatePerSecond  = 10
	defaultRateBurst      = 10
)

type gatewayConfig struct {
	requestTimeout time.Duration
	ratePerSecond  float64
	rateBurst      int
	allowedOrigins []string
}

func NewGatewayConfig() (config.GatewayConfig, error) {
	cfg := &gatewayConfig{
		requestTimeout: defaultRequestTimeout,
		ratePerSecond:  defaultRatePerSecond,
		rateBurst:      defaultRateBurst,
		allowedOrigins: []string{"*"},
	}

	if v := os.Getenv(requestTimeoutEnvName); len(v) != 0 {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid request timeout: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid request timeout: %s must be positive", d)
		}
		cfg.requestTimeout = d
	}

	if v := os.Getenv(rateLimitEnvName); len(v) != 0 {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit: %w", err)
		}
		if r <= 0 {
			return nil, fmt.Errorf("invalid rate limit: %v must be positive", r)
		}
		cfg.ratePerSecond = r
	}

	if v := os.Getenv(rateBurstEnvName); len(v) != 0 {
		b, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid rate burst: %w", err)
		}
		if b < 1 {
			return nil, fmt.Errorf("invalid rate burst: %d must be at least 1", b)
		}
		cfg.rateBurst = b
	}

	if v := os.Getenv(allowedOriginsEnvName); len(v) != 0 {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("invalid allowed origins %q", v)
		}
		cfg.allowedOrigins = origins
	}

	return cfg, nil
}

func (cfg *gatewayConfig) RequestTimeout() time.Duration {
	return cfg.requestTimeout
}

func (cfg *gatewayConfig) RatePerSecond() float64 {
	return cfg.ratePerSecond
}

func (cfg *gatewayConfig) RateBurst() int {
	return cfg.rateBurst
}

func (cfg *gatewayConfig) AllowedOrigins() []string {
	return cfg.allowedOrigins
}
