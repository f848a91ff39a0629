package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/atieqrehman11/kids-cashflow/internal/models"
)

// PostgresStore is the relational Store adapter. Amounts are stored as
// NUMERIC(10,2); listings rely on created_at ordering.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateAccount(ctx context.Context, name string, age int, initialBalance decimal.Decimal) (*models.Account, error) {
	a := &models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Age:       age,
		Balance:   initialBalance.Round(2),
		CreatedAt: time.Now().UTC(),
	}
	query := `
		INSERT INTO accounts (id, name, age, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, a.ID, a.Name, a.Age, a.Balance, a.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, name, age, balance, created_at
		FROM accounts
		WHERE id = $1
	`
	var a models.Account
	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Age, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT id, name, age, balance, created_at
		FROM accounts
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Age, &a.Balance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name    = COALESCE($2, name),
		    age     = COALESCE($3, age),
		    balance = COALESCE($4, balance)
		WHERE id = $1
		RETURNING id, name, age, balance, created_at
	`
	var balance *decimal.Decimal
	if patch.Balance != nil {
		rounded := patch.Balance.Round(2)
		balance = &rounded
	}
	var a models.Account
	err := s.db.QueryRowContext(ctx, query, id, patch.Name, patch.Age, balance).
		Scan(&a.ID, &a.Name, &a.Age, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &a, nil
}

// DeleteAccount removes the account and its transactions in one database
// transaction so a cascade can never be half applied.
func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete transactions: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return rows > 0, nil
}

func (s *PostgresStore) SetAccountBalance(ctx context.Context, id string, newBalance decimal.Decimal) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $2
		WHERE id = $1
		RETURNING id, name, age, balance, created_at
	`
	var a models.Account
	err := s.db.QueryRowContext(ctx, query, id, newBalance.Round(2)).
		Scan(&a.ID, &a.Name, &a.Age, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, accountID, txType string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	t := &models.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Type:        txType,
		Amount:      amount.Round(2),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	query := `
		INSERT INTO transactions (id, account_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query, t.ID, t.AccountID, t.Type, t.Amount, t.Description, t.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, description, created_at
		FROM transactions
	`
	args := []any{}
	if filter.AccountID != "" {
		query += ` WHERE account_id = $1`
		args = append(args, filter.AccountID)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	query := `
		INSERT INTO users (id, username, password_hash)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, password_hash FROM users WHERE id = $1`
	var u models.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash FROM users WHERE username = $1`
	var u models.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
