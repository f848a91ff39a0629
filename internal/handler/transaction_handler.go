package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atieqrehman11/kids-cashflow/internal/ledger"
	"github.com/atieqrehman11/kids-cashflow/internal/middleware"
	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

// TransactionPoster defines the write-side ledger operation used by
// TransactionHandler.
type TransactionPoster interface {
	PostTransaction(ctx context.Context, accountID, txType, amount, description string) (*models.Transaction, error)
}

// TransactionLister defines the read-side store operation used by
// TransactionHandler.
type TransactionLister interface {
	ListTransactions(ctx context.Context, filter storage.TransactionFilter) ([]models.Transaction, error)
}

type TransactionHandler struct {
	poster TransactionPoster
	lister TransactionLister
}

type CreateTransactionRequest struct {
	AccountID   string `json:"accountId" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=credit debit"`
	Amount      string `json:"amount" validate:"required,posdecimal"`
	Description string `json:"description"`
}

type InsufficientFundsResponse struct {
	Message         string `json:"message"`
	CurrentBalance  string `json:"currentBalance"`
	RequestedAmount string `json:"requestedAmount"`
}

func NewTransactionHandler(poster TransactionPoster, lister TransactionLister) *TransactionHandler {
	return &TransactionHandler{poster: poster, lister: lister}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.poster.PostTransaction(c.Request.Context(), req.AccountID, req.Type, req.Amount, req.Description)
	if err != nil {
		var insufficient *ledger.InsufficientFundsError
		switch {
		case errors.Is(err, ledger.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, InsufficientFundsResponse{
				Message:         "Insufficient funds",
				CurrentBalance:  insufficient.CurrentBalance.StringFixed(2),
				RequestedAmount: insufficient.RequestedAmount.StringFixed(2),
			})
		case errors.Is(err, ledger.ErrInvalidAmount):
			middleware.RespondWithValidationError(c, []middleware.ValidationError{
				{Field: "Amount", Message: "Must be a positive decimal amount", Type: "decimal"},
			})
		case errors.Is(err, ledger.ErrInvalidType):
			middleware.RespondWithValidationError(c, []middleware.ValidationError{
				{Field: "Type", Message: "Value must be one of: credit debit", Type: "oneof"},
			})
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		}
		return
	}

	c.JSON(http.StatusCreated, models.TransactionToView(transaction))
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter := storage.TransactionFilter{AccountID: c.Query("accountId")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filter.Limit = limit
	}

	transactions, err := h.lister.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	views := make([]*models.TransactionView, len(transactions))
	for i := range transactions {
		views[i] = models.TransactionToView(&transactions[i])
	}
	c.JSON(http.StatusOK, views)
}
