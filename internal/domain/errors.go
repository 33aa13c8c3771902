package domain

import "errors"

var (
	// ErrInvalidAmount indicates that the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrMalformedAmount indicates that the amount is not a decimal number.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrAmountOutOfBounds indicates an amount with too many integer or fractional digits.
	ErrAmountOutOfBounds = errors.New("amount must have at most 18 integer and 8 fractional digits")
	// ErrInvalidTarget indicates that the transfer target is missing.
	ErrInvalidTarget = errors.New("target account cannot be nil")
	// ErrInactiveAccount indicates that an operation touched a deactivated account.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrNegativeInitialBalance indicates an attempt to open an account in debt.
	ErrNegativeInitialBalance = errors.New("initial balance cannot be negative")
	// ErrLedgerMismatch indicates that the balance no longer matches the ledger.
	ErrLedgerMismatch = errors.New("balance does not match ledger")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates an id collision in the account registry.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrSameAccount indicates that the transfer source and target are the same account.
	ErrSameAccount = errors.New("from and to accounts are the same")
)
