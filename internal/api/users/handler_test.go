package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"imaginify/internal/app/http/middleware"
	domain "imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	u := domain.New("clerk_1", "ada@example.com", "ada")
	u.ID = "u1"
	u.FirstName = "Ada"

	r := gin.New()
	r.GET("/api/me", func(c *gin.Context) { c.Set(middleware.CtxUser, &u) }, GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, domain.DefaultCreditBalance, resp.User.CreditBalance)
	require.NotNil(t, resp.User.FirstName)
	assert.Equal(t, "Ada", *resp.User.FirstName)
	assert.Nil(t, resp.User.LastName)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "Free", resp.Plan.Name)
}

func TestGetCurrentUserUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/me", GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
