package routes

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adminapi "imaginify/internal/api/admin"
	"imaginify/internal/api/billing"
	clerkwebhooks "imaginify/internal/api/clerkwebhook"
	imagesapi "imaginify/internal/api/images"
	stripewebhooks "imaginify/internal/api/stripewebhook"
	"imaginify/internal/apperror"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver map[string]*users.User

func (s staticResolver) GetUserByClerkID(_ context.Context, clerkID string) (*users.User, error) {
	if u, ok := s[clerkID]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", clerkID)
}

func newRouter(t *testing.T) (*gin.Engine, *rsa.PrivateKey) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	member := users.New("user_member", "m@example.com", "m")
	member.ID = "u1"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	RegisterRoutes(r, Deps{
		ClerkKey:      &key.PublicKey,
		Resolver:      staticResolver{"user_member": &member},
		Logger:        logger,
		StripeWebhook: stripewebhooks.NewHandler("", nil, logger),
		ClerkWebhook:  clerkwebhooks.NewHandler("", nil, logger),
		Images:        imagesapi.NewHandler(nil, nil, logger),
		Billing:       billing.NewHandler(nil, nil, logger),
		Admin:         adminapi.NewHandler(nil, nil, logger),
	})
	return r, key
}

func sign(t *testing.T, key *rsa.PrivateKey, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func do(r *gin.Engine, method, target, token string) int {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/plans", ""))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/transformations", ""))
}

func TestAuthenticatedRoutesNeedSession(t *testing.T) {
	r, key := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", ""))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/me", sign(t, key, "user_member")))
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", sign(t, key, "user_unknown")))
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	r, key := newRouter(t)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/stats", sign(t, key, "user_member")))
}

func TestWebhooksWithoutSecretFail(t *testing.T) {
	r, _ := newRouter(t)

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodPost, "/api/webhooks/stripe", ""))
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodPost, "/api/webhooks/clerk", ""))
}
