package models

import "time"

// AccountView is the API projection of an account. Money fields are
// serialised as fixed two-decimal strings so clients never see binary
// floating point artifacts.
type AccountView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransactionView is the API projection of a transaction.
type TransactionView struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserView never exposes the password hash.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func AccountToView(a *Account) *AccountView {
	return &AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Age:       a.Age,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt,
	}
}

func TransactionToView(t *Transaction) *TransactionView {
	return &TransactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func UserToView(u *User) *UserView {
	return &UserView{ID: u.ID, Username: u.Username}
}
