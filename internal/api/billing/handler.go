package billing

import (
	"context"
	"log/slog"

	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/plans"
)

type CheckoutCreator interface {
	Create(ctx context.Context, plan plans.Plan, buyerID string) (string, error)
}

type TransactionLister interface {
	ListByBuyer(ctx context.Context, buyerID string) ([]billing.Transaction, error)
}

type Handler struct {
	checkout     CheckoutCreator
	transactions TransactionLister
	logger       *slog.Logger
}

func NewHandler(checkout CheckoutCreator, transactions TransactionLister, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{checkout: checkout, transactions: transactions, logger: logger}
}
