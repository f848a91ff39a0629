package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. A credit increases the owning account's balance,
// a debit decreases it. Closed set.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Default descriptions applied when a transaction is posted without one.
const (
	DefaultCreditDescription = "Funds added"
	DefaultDebitDescription  = "Purchase"
)

type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Age       int             `json:"age"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Transaction is immutable once created. The only derived mutation is the
// owning account's cached balance.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// User is the legacy user record. It is kept for schema compatibility and
// is not referenced by the account or transaction flows.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
