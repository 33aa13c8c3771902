// Package domain provides definitions of all entities.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// IDGenerator produces a unique account identifier.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

type options struct {
	newID     IDGenerator
	clock     Clock
	createdAt time.Time
}

// Option customizes account construction.
type Option func(*options)

// WithIDGenerator replaces the default uuid based generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.newID = g }
}

// WithClock replaces time.Now as the source of transaction timestamps.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCreatedAt sets the creation time instead of reading it from the clock.
func WithCreatedAt(t time.Time) Option {
	return func(o *options) { o.createdAt = t }
}

// Account holds a balance and the ordered ledger of everything that changed it.
//
// Account is not safe for concurrent use. Callers sharing an account between
// goroutines must serialize access, see accountrepo.
type Account struct {
	id             string
	owner          string
	initialBalance decimal.Decimal
	balance        decimal.Decimal
	active         bool
	ledger         []Transaction
	createdAt      time.Time
	clock          Clock
}

// AccountSnapshot is a read-only copy of the account state.
type AccountSnapshot struct {
	ID               string          `json:"id"`
	Owner            string          `json:"owner"`
	Balance          decimal.Decimal `json:"balance"`
	Active           bool            `json:"active"`
	TransactionCount int             `json:"transaction_count"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewAccount opens an active account for owner with the given initial balance.
func NewAccount(owner string, initialBalance decimal.Decimal, opts ...Option) (*Account, error) {
	if initialBalance.IsNegative() {
		return nil, ErrNegativeInitialBalance
	}

	o := options{
		newID: uuid.NewString,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.createdAt.IsZero() {
		o.createdAt = o.clock()
	}

	return &Account{
		id:             o.newID(),
		owner:          owner,
		initialBalance: initialBalance,
		balance:        initialBalance,
		active:         true,
		createdAt:      o.createdAt,
		clock:          o.clock,
	}, nil
}

// Deposit adds amount to the balance and records a DEPOSIT transaction.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "deposit")
	}

	if !a.active {
		return errors.Wrap(ErrInactiveAccount, "deposit")
	}

	a.apply(KindDeposit, amount)

	return nil
}

// Withdraw removes amount from the balance and records a WITHDRAWAL transaction.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "withdraw")
	}

	if !a.active {
		return errors.Wrap(ErrInactiveAccount, "withdraw")
	}

	if a.balance.LessThan(amount) {
		return errors.Wrap(ErrInsufficientBalance, "withdraw")
	}

	a.apply(KindWithdrawal, amount)

	return nil
}

// Transfer moves amount from a to target.
//
// Both sides are validated before either is touched, so a failed transfer
// leaves both ledgers unchanged. Transferring to a itself records a
// withdrawal followed by a deposit of the same amount.
func (a *Account) Transfer(target *Account, amount decimal.Decimal) error {
	if target == nil {
		return errors.Wrap(ErrInvalidTarget, "transfer")
	}

	if !amount.IsPositive() {
		return errors.Wrap(ErrInvalidAmount, "transfer")
	}

	if !a.active || !target.active {
		return errors.Wrap(ErrInactiveAccount, "transfer")
	}

	if a.balance.LessThan(amount) {
		return errors.Wrap(ErrInsufficientBalance, "transfer")
	}

	a.apply(KindWithdrawal, amount)
	target.apply(KindDeposit, amount)

	return nil
}

// Deactivate permanently stops the account from accepting money movements.
func (a *Account) Deactivate() {
	a.active = false
}

func (a *Account) apply(kind Kind, amount decimal.Decimal) {
	if kind == KindDeposit {
		a.balance = a.balance.Add(amount)
	} else {
		a.balance = a.balance.Sub(amount)
	}

	recordedAt := a.clock()
	if n := len(a.ledger); n > 0 && recordedAt.Before(a.ledger[n-1].RecordedAt) {
		recordedAt = a.ledger[n-1].RecordedAt
	}

	a.ledger = append(a.ledger, Transaction{
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: a.balance,
		RecordedAt:   recordedAt,
	})
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// Owner returns the account owner name.
func (a *Account) Owner() string { return a.owner }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// InitialBalance returns the balance the account was opened with.
func (a *Account) InitialBalance() decimal.Decimal { return a.initialBalance }

// IsActive reports whether the account still accepts money movements.
func (a *Account) IsActive() bool { return a.active }

// CreatedAt returns the account creation time.
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// Transactions returns a copy of the ledger in the order entries were recorded.
func (a *Account) Transactions() []Transaction {
	txs := make([]Transaction, len(a.ledger))
	copy(txs, a.ledger)

	return txs
}

// LastTransaction returns the most recent ledger entry.
func (a *Account) LastTransaction() (Transaction, bool) {
	if len(a.ledger) == 0 {
		return Transaction{}, false
	}

	return a.ledger[len(a.ledger)-1], true
}

// Snapshot returns the current account state.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:               a.id,
		Owner:            a.owner,
		Balance:          a.balance,
		Active:           a.active,
		TransactionCount: len(a.ledger),
		CreatedAt:        a.createdAt,
	}
}

// Verify checks that the balance equals the initial balance plus every
// ledger entry and that it never went below zero.
func (a *Account) Verify() error {
	running := a.initialBalance

	for i, tx := range a.ledger {
		running = running.Add(tx.SignedAmount())

		if running.IsNegative() || !running.Equal(tx.BalanceAfter) {
			return errors.Wrapf(ErrLedgerMismatch, "entry %d", i)
		}
	}

	if !running.Equal(a.balance) {
		return ErrLedgerMismatch
	}

	return nil
}
