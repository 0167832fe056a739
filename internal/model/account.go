package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account - игровой аккаунт. Идентифицируется по непрозрачному ключу Key,
// который выдается один раз при создании и больше не меняется.
type Account struct {
	ID        int64
	Username  string
	Balance   decimal.Decimal
	Key       string
	LastLogin time.Time
}

// RoundMoney округляет денежную сумму до 2 знаков после запятой
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
