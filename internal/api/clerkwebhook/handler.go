// Package clerkwebhook keeps local users in step with Clerk. Deliveries are
// signed by Svix.
package clerkwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"imaginify/internal/actions"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

const maxBodyBytes = 65536

type UserSyncer interface {
	CreateUser(ctx context.Context, req actions.CreateUserRequest) (*users.User, error)
	UpdateUser(ctx context.Context, req actions.UpdateUserRequest) (*users.User, error)
}

type Handler struct {
	secret string
	users  UserSyncer
	logger *slog.Logger
}

func NewHandler(secret string, syncer UserSyncer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{secret: secret, users: syncer, logger: logger}
}

type event struct {
	Type string    `json:"type"`
	Data clerkUser `json:"data"`
}

type clerkUser struct {
	ID                    string         `json:"id"`
	Username              string         `json:"username"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

func (u clerkUser) primaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func (h *Handler) ClerkWebhook(c *gin.Context) {
	if h.secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.Configuration("CLERK_WEBHOOK_SECRET").Error()})
		return
	}
	wh, err := svix.NewWebhook(h.secret)
	if err != nil {
		h.logger.Error("invalid clerk webhook secret", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CLERK_WEBHOOK_SECRET is invalid"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	if err := wh.Verify(payload, c.Request.Header); err != nil {
		h.logger.Warn("clerk signature verification failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": apperror.Signature(err).Error()})
		return
	}

	var evt event
	if err := json.Unmarshal(payload, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
		return
	}

	switch evt.Type {
	case "user.created":
		u, err := h.users.CreateUser(c.Request.Context(), actions.CreateUserRequest{
			ClerkID:   evt.Data.ID,
			Email:     evt.Data.primaryEmail(),
			Username:  evt.Data.Username,
			Photo:     evt.Data.ImageURL,
			FirstName: evt.Data.FirstName,
			LastName:  evt.Data.LastName,
		})
		if err != nil {
			c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "user": u})

	case "user.updated":
		u, err := h.users.UpdateUser(c.Request.Context(), actions.UpdateUserRequest{
			ClerkID:   evt.Data.ID,
			FirstName: evt.Data.FirstName,
			LastName:  evt.Data.LastName,
			Username:  evt.Data.Username,
			Photo:     evt.Data.ImageURL,
		})
		if err != nil {
			c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "user": u})

	default:
		c.Status(http.StatusOK)
	}
}
