package billing

import (
	"log/slog"
	"net/http"

	"imaginify/internal/app/http/middleware"
	"imaginify/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetTransactionHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.transactions.ListByBuyer(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("load transactions failed", slog.String("user", user.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	if list == nil {
		list = []billing.Transaction{}
	}

	c.JSON(http.StatusOK, list)
}
