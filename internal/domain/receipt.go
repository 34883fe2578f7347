package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is issued once a checkout settles. Balance is the account
// balance after the debit.
type Receipt struct {
	ID        uuid.UUID
	Total     decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
}
