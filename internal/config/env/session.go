package env

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"slot_backend/internal/config"
)

const (
	startingBalanceEnvName = "STARTING_BALANCE"
	guestUsernameEnvName   = "GUEST_USERNAME"

	defaultGuestUsername = "Guest"
)

var defaultStartingBalance = decimal.RequireFromString("10000.00")

type sessionConfig struct {
	startingBalance decimal.Decimal
	guestUsername   string
}

func NewSessionConfig() (config.SessionConfig, error) {
	cfg := &sessionConfig{
		startingBalance: defaultStartingBalance,
		guestUsername:   defaultGuestUsername,
	}

	if v := os.Getenv(startingBalanceEnvName); len(v) != 0 {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid starting balance: %w", err)
		}
		if d.IsNegative() {
			return nil, fmt.Errorf("invalid starting balance: %s is negative", d)
		}
		cfg.startingBalance = d.Round(2)
	}

	if v := os.Getenv(guestUsernameEnvName); len(v) != 0 {
		cfg.guestUsername = v
	}

	return cfg, nil
}

func (cfg *sessionConfig) StartingBalance() decimal.Decimal {
	return cfg.startingBalance
}

func (cfg *sessionConfig) GuestUsername() string {
	return cfg.guestUsername
}
