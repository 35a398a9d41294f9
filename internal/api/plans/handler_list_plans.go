package plans

import (
	"net/http"

	"imaginify/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

func ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, plans.Catalog())
}
