package users

import (
	"net/http"

	"imaginify/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User: BuildUserDTO(*user),
		Plan: BuildPlanDTO(user.PlanID),
	})
}
