package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether a transaction added or removed money.
type Kind string

// Supported transaction kinds.
const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Transaction is an immutable record of one balance change.
type Transaction struct {
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"` // always positive
	BalanceAfter decimal.Decimal `json:"balance_after"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// SignedAmount returns the amount as it affected the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindWithdrawal {
		return t.Amount.Neg()
	}

	return t.Amount
}
