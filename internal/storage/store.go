// Package storage defines the Entity Store contract and its two backends:
// a goroutine-safe in-memory map store and a PostgreSQL adapter. The ledger
// and stats services are indifferent to which backend is in use.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist. Callers
// map it to a 404-style response; it is never wrapped in retries.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint is violated, e.g.
// creating a user with a taken username. Both backends enforce it.
var ErrDuplicate = errors.New("record already exists")

// AccountPatch is a partial update for an account. Only non-nil fields are
// applied.
type AccountPatch struct {
	Name    *string
	Age     *int
	Balance *decimal.Decimal
}

// TransactionFilter narrows a transaction listing. A zero filter returns
// every transaction.
type TransactionFilter struct {
	AccountID string
	Limit     int
}

// Store is the durable keyed storage contract for accounts, transactions
// and legacy user records. Listings are ordered newest-created-first.
// Each operation is atomic only at the level of the single call; no
// multi-call transactional envelope is provided.
type Store interface {
	CreateAccount(ctx context.Context, name string, age int, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, id string, patch AccountPatch) (*models.Account, error)
	// DeleteAccount removes the account and every transaction that
	// references it. Reports whether an account existed to delete.
	DeleteAccount(ctx context.Context, id string) (bool, error)
	// SetAccountBalance overwrites the cached balance field directly. It is
	// the sole balance mutation path, used by the ledger after computing a
	// new balance.
	SetAccountBalance(ctx context.Context, id string, newBalance decimal.Decimal) (*models.Account, error)

	CreateTransaction(ctx context.Context, accountID, txType string, amount decimal.Decimal, description string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
