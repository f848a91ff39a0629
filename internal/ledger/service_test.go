package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewService(store, zap.NewNop()), store
}

func createAccount(t *testing.T, store *storage.MemoryStore, balance string) *models.Account {
	t.Helper()
	a, err := store.CreateAccount(context.Background(), "Mia", 10, decimal.RequireFromString(balance))
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return a
}

func balanceOf(t *testing.T, store *storage.MemoryStore, id string) string {
	t.Helper()
	a, err := store.GetAccount(context.Background(), id)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	return a.Balance.StringFixed(2)
}

func TestPostTransactionCreditThenFailedDebit(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := createAccount(t, store, "50.00")

	tx, err := svc.PostTransaction(ctx, a.ID, models.TransactionCredit, "25.50", "gift")
	if err != nil {
		t.Fatalf("PostTransaction: %v", err)
	}
	if tx.Type != models.TransactionCredit || tx.Amount.StringFixed(2) != "25.50" {
		t.Fatalf("tx = %s %s, want credit 25.50", tx.Type, tx.Amount.StringFixed(2))
	}
	if got := balanceOf(t, store, a.ID); got != "75.50" {
		t.Fatalf("balance = %s, want 75.50", got)
	}

	_, err = svc.PostTransaction(ctx, a.ID, models.TransactionDebit, "100.00", "")
	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientFundsError", err)
	}
	if insufficient.CurrentBalance.StringFixed(2) != "75.50" {
		t.Fatalf("currentBalance = %s, want 75.50", insufficient.CurrentBalance.StringFixed(2))
	}
	if insufficient.RequestedAmount.StringFixed(2) != "100.00" {
		t.Fatalf("requestedAmount = %s, want 100.00", insufficient.RequestedAmount.StringFixed(2))
	}
	if got := balanceOf(t, store, a.ID); got != "75.50" {
		t.Fatalf("balance = %s, want 75.50 after rejected debit", got)
	}

	// The rejected debit must not have created a transaction record.
	txs, err := store.ListTransactions(ctx, storage.TransactionFilter{AccountID: a.ID})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len = %d, want 1", len(txs))
	}
}

func TestPostTransactionDebitToExactlyZero(t *testing.T) {
	svc, store := newTestService(t)
	a := createAccount(t, store, "75.50")

	if _, err := svc.PostTransaction(context.Background(), a.ID, models.TransactionDebit, "75.50", "spend it all"); err != nil {
		t.Fatalf("PostTransaction: %v", err)
	}
	if got := balanceOf(t, store, a.ID); got != "0.00" {
		t.Fatalf("balance = %s, want 0.00", got)
	}
}

func TestPostTransactionBalanceMatchesHistory(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := createAccount(t, store, "10.00")

	postings := []struct {
		txType string
		amount string
	}{
		{models.TransactionCredit, "5.25"},
		{models.TransactionCredit, "0.01"},
		{models.TransactionDebit, "3.99"},
		{models.TransactionCredit, "100.00"},
		{models.TransactionDebit, "11.27"},
	}
	for _, p := range postings {
		if _, err := svc.PostTransaction(ctx, a.ID, p.txType, p.amount, ""); err != nil {
			t.Fatalf("PostTransaction(%s %s): %v", p.txType, p.amount, err)
		}
	}

	// 10.00 + 5.25 + 0.01 - 3.99 + 100.00 - 11.27
	if got := balanceOf(t, store, a.ID); got != "100.00" {
		t.Fatalf("balance = %s, want 100.00", got)
	}
}

func TestPostTransactionDefaultDescriptions(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := createAccount(t, store, "50.00")

	credit, err := svc.PostTransaction(ctx, a.ID, models.TransactionCredit, "1.00", "")
	if err != nil {
		t.Fatalf("PostTransaction: %v", err)
	}
	if credit.Description != models.DefaultCreditDescription {
		t.Fatalf("description = %q, want %q", credit.Description, models.DefaultCreditDescription)
	}

	debit, err := svc.PostTransaction(ctx, a.ID, models.TransactionDebit, "1.00", "")
	if err != nil {
		t.Fatalf("PostTransaction: %v", err)
	}
	if debit.Description != models.DefaultDebitDescription {
		t.Fatalf("description = %q, want %q", debit.Description, models.DefaultDebitDescription)
	}
}

func TestPostTransactionValidation(t *testing.T) {
	svc, store := newTestService(t)
	a := createAccount(t, store, "50.00")

	tests := []struct {
		name      string
		accountID string
		txType    string
		amount    string
		wantErr   error
	}{
		{"unknown account", "missing", models.TransactionCredit, "1.00", ErrAccountNotFound},
		{"unparseable amount", a.ID, models.TransactionCredit, "abc", ErrInvalidAmount},
		{"zero amount", a.ID, models.TransactionCredit, "0", ErrInvalidAmount},
		{"negative amount", a.ID, models.TransactionDebit, "-5.00", ErrInvalidAmount},
		{"bad type", a.ID, "transfer", "1.00", ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PostTransaction(context.Background(), tt.accountID, tt.txType, tt.amount, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got := balanceOf(t, store, a.ID); got != "50.00" {
		t.Fatalf("balance = %s, want 50.00 after rejected postings", got)
	}
}

func TestPostTransactionSerialisesPerAccount(t *testing.T) {
	svc, store := newTestService(t)
	a := createAccount(t, store, "100.00")

	// 100 concurrent 1.00 debits against a 100.00 balance: every posting
	// may succeed, but the balance must never go negative and must end at
	// exactly 0.00.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.PostTransaction(context.Background(), a.ID, models.TransactionDebit, "1.00", "")
		}()
	}
	wg.Wait()

	if got := balanceOf(t, store, a.ID); got != "0.00" {
		t.Fatalf("balance = %s, want 0.00", got)
	}
}
