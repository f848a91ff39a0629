package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/atieqrehman11/kids-cashflow/internal/middleware"
	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

// AccountStore defines the Entity Store operations used by AccountHandler.
type AccountStore interface {
	CreateAccount(ctx context.Context, name string, age int, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, id string, patch storage.AccountPatch) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

type AccountHandler struct {
	store AccountStore
}

type CreateAccountRequest struct {
	Name           string `json:"name" validate:"required"`
	Age            int    `json:"age" validate:"required,gt=0"`
	InitialBalance string `json:"initialBalance" validate:"omitempty,decimal"`
}

type UpdateAccountRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Age     *int    `json:"age" validate:"omitempty,gt=0"`
	Balance *string `json:"balance" validate:"omitempty,decimal"`
}

func NewAccountHandler(store AccountStore) *AccountHandler {
	return &AccountHandler{store: store}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	// The decimal tag has already vetted the string; the parse cannot fail.
	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		initialBalance, _ = decimal.NewFromString(req.InitialBalance)
	}

	account, err := h.store.CreateAccount(c.Request.Context(), req.Name, req.Age, initialBalance)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, models.AccountToView(account))
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.store.ListAccounts(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch accounts")
		return
	}

	views := make([]*models.AccountView, len(accounts))
	for i := range accounts {
		views[i] = models.AccountToView(&accounts[i])
	}
	c.JSON(http.StatusOK, views)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.store.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, models.AccountToView(account))
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	patch := storage.AccountPatch{Name: req.Name, Age: req.Age}
	if req.Balance != nil {
		parsed, _ := decimal.NewFromString(*req.Balance)
		patch.Balance = &parsed
	}

	account, err := h.store.UpdateAccount(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, models.AccountToView(account))
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	deleted, err := h.store.DeleteAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	if !deleted {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
