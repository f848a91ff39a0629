package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when a posting references an account
	// that does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount is returned when an amount does not parse as a
	// decimal or is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be a positive decimal")

	// ErrInvalidType is returned for any transaction type other than
	// credit or debit.
	ErrInvalidType = errors.New("transaction type must be credit or debit")
)

// InsufficientFundsError reports a debit that would drive the account
// negative. It carries the figures the caller needs to react, e.g. prompt
// for a smaller amount.
type InsufficientFundsError struct {
	CurrentBalance  decimal.Decimal
	RequestedAmount decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s",
		e.CurrentBalance.StringFixed(2), e.RequestedAmount.StringFixed(2))
}
