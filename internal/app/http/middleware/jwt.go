package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	CtxUser    = "user"
	CtxUserID  = "user_id"
	CtxClerkID = "clerk_id"
	CtxRole    = "role"
)

// SessionCookie is where Clerk keeps the session token for same-site calls.
const SessionCookie = "__session"

// UserResolver maps a Clerk subject to the local user row.
type UserResolver interface {
	GetUserByClerkID(ctx context.Context, clerkID string) (*users.User, error)
}

// ParseClerkKey reads the PEM public key Clerk signs session tokens with.
func ParseClerkKey(pem string) (*rsa.PublicKey, error) {
	if strings.TrimSpace(pem) == "" {
		return nil, apperror.Configuration("CLERK_JWT_KEY")
	}
	// keys pasted into a single-line env var carry literal \n
	pem = strings.ReplaceAll(pem, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parse CLERK_JWT_KEY: %w", err)
	}
	return key, nil
}

// AuthMiddleware verifies the Clerk session token (RS256) and loads the
// matching user. A nil key answers 500 on every request.
func AuthMiddleware(key *rsa.PublicKey, resolver UserResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "CLERK_JWT_KEY not configured"})
			return
		}

		tokenString, err := sessionToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return key, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := resolver.GetUserByClerkID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			logger.Error("resolve session user failed", slog.String("clerkId", claims.Subject), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set(CtxUser, user)
		c.Set(CtxUserID, user.ID)
		c.Set(CtxClerkID, user.ClerkID)
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return "", errors.New("Bearer token malformed")
		}
		return strings.TrimSpace(tokenString), nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Authorization header missing")
}

// CurrentUser returns the user AuthMiddleware stored on c.
func CurrentUser(c *gin.Context) (*users.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*users.User)
	return u, ok && u != nil
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if value != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
