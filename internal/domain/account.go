package domain

import "github.com/shopspring/decimal"

type Account struct {
	Username     string
	Email        string
	PasswordHash string
	Balance      decimal.Decimal
}
