package env

import (
	"fmt"
	"os"
	"strings"

	"slot_backend/internal/config"
)

const appEnvName = "APP_ENV"

type logConfig struct {
	development bool
}

// NewLogConfig - APP_ENV=development включает человекочитаемые логи.
// По умолчанию production
func NewLogConfig() (config.LogConfig, error) {
	switch v := strings.ToLower(os.Getenv(appEnvName)); v {
	case "", "production", "prod":
		return &logConfig{}, nil
	case "development", "dev", "local":
		return &logConfig{development: true}, nil
	default:
		return nil, fmt.Errorf("invalid %s %q", appEnvName, v)
	}
}

func (cfg *logConfig) Development() bool {
	return cfg.development
}
