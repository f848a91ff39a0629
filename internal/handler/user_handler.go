package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atieqrehman11/kids-cashflow/internal/middleware"
	"github.com/atieqrehman11/kids-cashflow/internal/models"
	"github.com/atieqrehman11/kids-cashflow/internal/user"
)

// UserRegistrar defines the legacy user operation used by UserHandler.
type UserRegistrar interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
}

type UserHandler struct {
	users UserRegistrar
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

func NewUserHandler(users UserRegistrar) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	created, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			middleware.RespondWithError(c, http.StatusConflict, "Username already taken")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, models.UserToView(created))
}
