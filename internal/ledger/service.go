// Package ledger enforces the one business invariant of the system: a
// debit may not drive an account's balance negative. It keeps the account's
// cached balance consistent with the transaction history by adjusting it
// incrementally on every posting.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

// Service posts transactions against the Entity Store.
//
// PostTransaction holds a per-account mutex across the check/persist/update
// sequence, so two concurrent postings against the same account can neither
// pass the funds check on a stale balance nor lose each other's balance
// update. The transaction insert and the balance write remain two separate
// store calls with no rollback between them; a failure after the insert
// leaves the record in place and the balance unadjusted.
type Service struct {
	store  storage.Store
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store storage.Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex serialising postings for one account.
// Lock entries are never reaped; the account population is tiny.
func (s *Service) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

// PostTransaction validates funds availability, persists the transaction
// and updates the owning account's cached balance. The description defaults
// to "Funds added" for credits and "Purchase" for debits when omitted.
func (s *Service) PostTransaction(ctx context.Context, accountID, txType, amount, description string) (*models.Transaction, error) {
	if txType != models.TransactionCredit && txType != models.TransactionDebit {
		return nil, ErrInvalidType
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil || !amt.IsPositive() {
		return nil, ErrInvalidAmount
	}
	amt = amt.Round(2)

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if txType == models.TransactionDebit && amt.GreaterThan(account.Balance) {
		return nil, &InsufficientFundsError{
			CurrentBalance:  account.Balance,
			RequestedAmount: amt,
		}
	}

	if description == "" {
		if txType == models.TransactionCredit {
			description = models.DefaultCreditDescription
		} else {
			description = models.DefaultDebitDescription
		}
	}

	transaction, err := s.store.CreateTransaction(ctx, accountID, txType, amt, description)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal
	if txType == models.TransactionCredit {
		newBalance = account.Balance.Add(amt).Round(2)
	} else {
		newBalance = account.Balance.Sub(amt).Round(2)
	}

	if _, err := s.store.SetAccountBalance(ctx, accountID, newBalance); err != nil {
		// The transaction record is already persisted; there is no
		// compensating delete. Surface the storage failure as-is.
		s.logger.Error("balance update failed after transaction insert",
			zap.String("accountId", accountID),
			zap.String("transactionId", transaction.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("transaction posted",
		zap.String("accountId", accountID),
		zap.String("transactionId", transaction.ID),
		zap.String("type", txType),
		zap.String("amount", amt.StringFixed(2)),
		zap.String("newBalance", newBalance.StringFixed(2)))

	return transaction, nil
}
