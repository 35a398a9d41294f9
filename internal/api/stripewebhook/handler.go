package stripewebhooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"imaginify/internal/actions"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
	stripeinfra "imaginify/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

const maxBodyBytes = 65536

// TransactionCreator records a completed checkout.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, req actions.CreateTransactionRequest) (*billing.Transaction, error)
}

type Handler struct {
	secret       string
	transactions TransactionCreator
	logger       *slog.Logger
}

func NewHandler(secret string, transactions TransactionCreator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{secret: secret, transactions: transactions, logger: logger}
}

// StripeWebhook answers 200 even when the signature does not verify, with
// the failure in the body.
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.secret == "" {
		err := apperror.Configuration("STRIPE_WEBHOOK_SECRET")
		h.logger.Error("stripe webhook misconfigured", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := stripeinfra.VerifyEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		h.logger.Warn("stripe signature verification failed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "Webhook error", "error": err.Error()})
		return
	}

	switch event.Type {
	case stripeinfra.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			h.logger.Error("decode checkout session failed", slog.String("event", event.ID), slog.String("error", err.Error()))
			c.JSON(http.StatusOK, gin.H{"message": "OK", "transaction": nil})
			return
		}

		tx, err := h.transactions.CreateTransaction(c.Request.Context(), transactionFromSession(&session))
		if err != nil {
			// not surfaced to Stripe, so a failed insert is not retried
			h.logger.Error("record checkout failed",
				slog.String("session", session.ID),
				slog.Bool("duplicate", errors.Is(err, apperror.ErrConflict)),
				slog.String("error", err.Error()))
			c.JSON(http.StatusOK, gin.H{"message": "OK", "transaction": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "transaction": tx})

	default:
		c.Status(http.StatusOK)
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
