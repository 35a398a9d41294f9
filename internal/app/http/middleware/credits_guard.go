package middleware

import (
	"net/http"

	"imaginify/internal/apperror"

	"github.com/gin-gonic/gin"
)

// RequireCredits stops users whose balance is below min. It only reads the
// balance; spending is not done here.
func RequireCredits(min int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		if user.CreditBalance < min {
			err := apperror.InsufficientCredits(user.CreditBalance, min)
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":         err.Error(),
				"creditBalance": user.CreditBalance,
			})
			return
		}

		c.Next()
	}
}
