package billing

import (
	"log/slog"
	"net/http"

	"imaginify/internal/apperror"
	"imaginify/internal/app/http/middleware"
	"imaginify/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

// CreateCheckoutSession starts a Stripe Checkout for a credit package. The
// session metadata carries what the webhook needs to credit the buyer.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PlanID string `json:"planId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid planId"})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	plan, ok := plans.Find(body.PlanID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	url, err := h.checkout.Create(c.Request.Context(), plan, user.ID)
	if err != nil {
		status := apperror.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("create checkout session failed", slog.String("user", user.ID), slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to create checkout session"})
			return
		}
		c.JSON(status, gin.H{"error": apperror.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
