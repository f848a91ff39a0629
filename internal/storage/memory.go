package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
)

type memAccount struct {
	models.Account
	seq int64
}

type memTransaction struct {
	models.Transaction
	seq int64
}

// MemoryStore is a process-local Store backed by keyed maps. A single mutex
// serialises all access; every read returns a copy so callers can never
// mutate internal state.
type MemoryStore struct {
	mu           sync.Mutex
	seq          int64
	accounts     map[string]*memAccount
	transactions map[string]*memTransaction
	users        map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[string]*memAccount),
		transactions: make(map[string]*memTransaction),
		users:        make(map[string]*models.User),
	}
}

// nextSeq orders records created within the same clock tick. Callers must
// hold mu.
func (s *MemoryStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *MemoryStore) CreateAccount(_ context.Context, name string, age int, initialBalance decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &memAccount{
		Account: models.Account{
			ID:        uuid.NewString(),
			Name:      name,
			Age:       age,
			Balance:   initialBalance.Round(2),
			CreatedAt: time.Now().UTC(),
		},
		seq: s.nextSeq(),
	}
	s.accounts[a.ID] = a
	cp := a.Account
	return &cp, nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := a.Account
	return &cp, nil
}

func (s *MemoryStore) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*memAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })
	out := make([]models.Account, len(all))
	for i, a := range all {
		out[i] = a.Account
	}
	return out, nil
}

func (s *MemoryStore) UpdateAccount(_ context.Context, id string, patch AccountPatch) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Age != nil {
		a.Age = *patch.Age
	}
	if patch.Balance != nil {
		a.Balance = patch.Balance.Round(2)
	}
	cp := a.Account
	return &cp, nil
}

func (s *MemoryStore) DeleteAccount(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	for txID, tx := range s.transactions {
		if tx.AccountID == id {
			delete(s.transactions, txID)
		}
	}
	return true, nil
}

func (s *MemoryStore) SetAccountBalance(_ context.Context, id string, newBalance decimal.Decimal) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Balance = newBalance.Round(2)
	cp := a.Account
	return &cp, nil
}

func (s *MemoryStore) CreateTransaction(_ context.Context, accountID, txType string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &memTransaction{
		Transaction: models.Transaction{
			ID:          uuid.NewString(),
			AccountID:   accountID,
			Type:        txType,
			Amount:      amount.Round(2),
			Description: description,
			CreatedAt:   time.Now().UTC(),
		},
		seq: s.nextSeq(),
	}
	s.transactions[t.ID] = t
	cp := t.Transaction
	return &cp, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*memTransaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	out := make([]models.Transaction, len(all))
	for i, t := range all {
		out[i] = t.Transaction
	}
	return out, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == username {
			return nil, ErrDuplicate
		}
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}
