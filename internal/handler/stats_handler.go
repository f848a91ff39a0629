package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atieqrehman11/kids-cashflow/internal/middleware"
	"github.com/atieqrehman11/kids-cashflow/internal/stats"
	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

// StatsProvider defines the read-side projections used by StatsHandler.
type StatsProvider interface {
	DashboardStats(ctx context.Context) (*stats.DashboardStats, error)
	AccountReport(ctx context.Context, accountID string) (*stats.AccountReport, error)
}

type StatsHandler struct {
	provider StatsProvider
}

func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

func (h *StatsHandler) DashboardStats(c *gin.Context) {
	result, err := h.provider.DashboardStats(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *StatsHandler) AccountReport(c *gin.Context) {
	result, err := h.provider.AccountReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch account report")
		return
	}
	c.JSON(http.StatusOK, result)
}
