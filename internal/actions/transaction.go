package actions

import (
	"context"
	"log/slog"
	"time"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
)

type CreateTransactionRequest struct {
	StripeID  string
	Amount    float64
	Plan      string
	Credits   int
	BuyerID   string
	CreatedAt time.Time
}

type TransactionActions struct {
	transactions TransactionRepository
	publisher    Publisher
	logger       *slog.Logger
}

func NewTransactionActions(tx TransactionRepository, pub Publisher, logger *slog.Logger) *TransactionActions {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &TransactionActions{transactions: tx, publisher: pub, logger: orDefault(logger)}
}

// CreateTransaction records a completed checkout and credits the buyer in
// one step: either both are stored or neither is. There is no lookup for an
// existing StripeID first; a repeat fails with a conflict from the unique
// index.
func (a *TransactionActions) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*billing.Transaction, error) {
	t := billing.Transaction{
		StripeID:  req.StripeID,
		Amount:    req.Amount,
		Plan:      req.Plan,
		Credits:   req.Credits,
		BuyerID:   req.BuyerID,
		CreatedAt: req.CreatedAt,
	}
	credited, err := a.transactions.CreateAndCredit(ctx, &t)
	if err != nil {
		return nil, apperror.Handle(a.logger, "create transaction", err)
	}
	if !credited && t.BuyerID != "" && t.Credits != 0 {
		a.logger.Warn("transaction buyer not found", slog.String("buyer", t.BuyerID), slog.String("stripeId", t.StripeID))
	}

	publish(ctx, a.publisher, a.logger, EventTransactionCreated, t)
	return &t, nil
}

func (a *TransactionActions) ListByBuyer(ctx context.Context, buyerID string) ([]billing.Transaction, error) {
	list, err := a.transactions.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, apperror.Handle(a.logger, "list transactions", err)
	}
	return list, nil
}

func (a *TransactionActions) ListAll(ctx context.Context) ([]billing.Transaction, error) {
	list, err := a.transactions.List(ctx)
	if err != nil {
		return nil, apperror.Handle(a.logger, "list all transactions", err)
	}
	return list, nil
}
