// Package actions holds the server-side operations the HTTP layer calls.
// Each action takes a typed request, talks to the stores, and reports
// failures through apperror.Handle.
package actions

import (
	"context"
	"log/slog"

	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/users"
)

type UserRepository interface {
	Create(ctx context.Context, u *users.User) error
	FindByID(ctx context.Context, id string) (*users.User, error)
	FindByClerkID(ctx context.Context, clerkID string) (*users.User, error)
	UpdateByClerkID(ctx context.Context, clerkID string, upd users.Update) (*users.User, error)
	AddCredits(ctx context.Context, id string, delta int) (*users.User, error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *media.Image) error
	FindByID(ctx context.Context, id string) (*media.Image, error)
	List(ctx context.Context, q media.ListQuery) ([]media.Image, int64, error)
}

type TransactionRepository interface {
	// CreateAndCredit inserts t and credits its buyer atomically. credited
	// is false when there was nothing to credit or the buyer is unknown.
	CreateAndCredit(ctx context.Context, t *billing.Transaction) (credited bool, err error)
	ListByBuyer(ctx context.Context, buyerID string) ([]billing.Transaction, error)
	List(ctx context.Context) ([]billing.Transaction, error)
}

// Revalidator drops cached renderings of a UI path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

const (
	EventImageCreated       = "image.created"
	EventTransactionCreated = "transaction.created"
	EventUserCreated        = "user.created"
)

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(context.Context, string) error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// publish logs a failed emit instead of failing the action; the row is
// already committed.
func publish(ctx context.Context, p Publisher, logger *slog.Logger, key string, payload any) {
	if err := p.Publish(ctx, key, payload); err != nil {
		logger.Warn("publish event failed", slog.String("event", key), slog.String("error", err.Error()))
	}
}
