// Package stats computes presentation statistics from the current Entity
// Store contents. It is stateless and rescans the store on every call; it
// never mutates anything.
package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

type DashboardStats struct {
	TotalAccounts int    `json:"totalAccounts"`
	TotalBalance  string `json:"totalBalance"`
	MonthlyNet    string `json:"monthlyNet"`
}

type AccountReport struct {
	TotalCredits         string `json:"totalCredits"`
	TotalDebits          string `json:"totalDebits"`
	TransactionCount     int    `json:"transactionCount"`
	AvgTransactionAmount string `json:"avgTransactionAmount"`
}

type Service struct {
	store storage.Store
	// now is swappable so tests can pin the month boundary.
	now func() time.Time
}

func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// DashboardStats returns the account count, the sum of all cached balances
// and the absolute net flow (credits minus debits) of the current calendar
// month. The month starts at local midnight on the 1st.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	transactions, err := s.store.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	net := decimal.Zero
	for _, t := range transactions {
		if t.CreatedAt.Before(startOfMonth) {
			continue
		}
		if t.Type == models.TransactionCredit {
			net = net.Add(t.Amount)
		} else {
			net = net.Sub(t.Amount)
		}
	}

	return &DashboardStats{
		TotalAccounts: len(accounts),
		TotalBalance:  totalBalance.StringFixed(2),
		MonthlyNet:    net.Abs().StringFixed(2),
	}, nil
}

// AccountReport scans one account's transactions. The average is taken over
// all transaction amounts regardless of direction, 0.00 when the account
// has no transactions.
func (s *Service) AccountReport(ctx context.Context, accountID string) (*AccountReport, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.store.ListTransactions(ctx, storage.TransactionFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	totalCredits := decimal.Zero
	totalDebits := decimal.Zero
	for _, t := range transactions {
		if t.Type == models.TransactionCredit {
			totalCredits = totalCredits.Add(t.Amount)
		} else {
			totalDebits = totalDebits.Add(t.Amount)
		}
	}

	avg := decimal.Zero
	if len(transactions) > 0 {
		avg = totalCredits.Add(totalDebits).DivRound(decimal.NewFromInt(int64(len(transactions))), 2)
	}

	return &AccountReport{
		TotalCredits:         totalCredits.StringFixed(2),
		TotalDebits:          totalDebits.StringFixed(2),
		TransactionCount:     len(transactions),
		AvgTransactionAmount: avg.StringFixed(2),
	}, nil
}
