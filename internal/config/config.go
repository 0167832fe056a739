package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
}

// PGConfig - пустой DSN означает хранилище в памяти
type PGConfig interface {
	DSN() string
}

type LogConfig interface {
	Development() bool
}

type GatewayConfig interface {
	RequestTimeout() time.Duration
	RatePerSecond() float64
	RateBurst() int
	AllowedOrigins() []string
}

type SessionConfig interface {
	StartingBalance() decimal.Decimal
	GuestUsername() string
}

type GamesConfig interface {
	Path() string
}
