package actions

import (
	"context"
	"log/slog"
	"strings"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/users"
)

type CreateUserRequest struct {
	ClerkID   string
	Email     string
	Username  string
	Photo     string
	FirstName string
	LastName  string
}

type UpdateUserRequest struct {
	ClerkID   string
	FirstName string
	LastName  string
	Username  string
	Photo     string
}

type UserActions struct {
	users     UserRepository
	publisher Publisher
	logger    *slog.Logger
}

func NewUserActions(repo UserRepository, pub Publisher, logger *slog.Logger) *UserActions {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &UserActions{users: repo, publisher: pub, logger: orDefault(logger)}
}

func (a *UserActions) CreateUser(ctx context.Context, req CreateUserRequest) (*users.User, error) {
	if strings.TrimSpace(req.ClerkID) == "" {
		return nil, apperror.Handle(a.logger, "create user", apperror.ValidationFailed("clerkId", "clerk id is required"))
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Handle(a.logger, "create user", apperror.ValidationFailed("email", "email is required"))
	}

	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}
	u := users.New(req.ClerkID, req.Email, username)
	u.Photo = req.Photo
	u.FirstName = req.FirstName
	u.LastName = req.LastName

	if err := a.users.Create(ctx, &u); err != nil {
		return nil, apperror.Handle(a.logger, "create user", err)
	}
	publish(ctx, a.publisher, a.logger, EventUserCreated, u)
	return &u, nil
}

func (a *UserActions) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	u, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Handle(a.logger, "get user", err)
	}
	return u, nil
}

func (a *UserActions) GetUserByClerkID(ctx context.Context, clerkID string) (*users.User, error) {
	u, err := a.users.FindByClerkID(ctx, clerkID)
	if err != nil {
		return nil, apperror.Handle(a.logger, "get user by clerk id", err)
	}
	return u, nil
}

func (a *UserActions) UpdateUser(ctx context.Context, req UpdateUserRequest) (*users.User, error) {
	u, err := a.users.UpdateByClerkID(ctx, req.ClerkID, users.Update{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Photo:     req.Photo,
	})
	if err != nil {
		return nil, apperror.Handle(a.logger, "update user", err)
	}
	return u, nil
}

// UpdateCredits adds delta (negative to spend) to the user's balance.
func (a *UserActions) UpdateCredits(ctx context.Context, userID string, delta int) (*users.User, error) {
	u, err := a.users.AddCredits(ctx, userID, delta)
	if err != nil {
		return nil, apperror.Handle(a.logger, "update credits", err)
	}
	return u, nil
}
