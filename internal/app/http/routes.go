package routes

import (
	"crypto/rsa"
	"log/slog"

	adminapi "imaginify/internal/api/admin"
	"imaginify/internal/api/billing"
	clerkwebhooks "imaginify/internal/api/clerkwebhook"
	imagesapi "imaginify/internal/api/images"
	"imaginify/internal/api/plans"
	stripewebhooks "imaginify/internal/api/stripewebhook"
	usersapi "imaginify/internal/api/users"
	"imaginify/internal/app/form"
	"imaginify/internal/app/http/middleware"
	"imaginify/internal/domain/users"
	"imaginify/internal/infra/cache"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the HTTP layer needs. Cache may be nil.
type Deps struct {
	ClerkKey *rsa.PublicKey
	Resolver middleware.UserResolver
	Cache    *cache.Cache
	Logger   *slog.Logger

	StripeWebhook *stripewebhooks.Handler
	ClerkWebhook  *clerkwebhooks.Handler
	Images        *imagesapi.Handler
	Billing       *billing.Handler
	Admin         *adminapi.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Webhooks read the raw body for signature checks, so no sanitizer here.
	r.POST("/api/webhooks/stripe", d.StripeWebhook.StripeWebhook)
	r.POST("/api/webhooks/clerk", d.ClerkWebhook.ClerkWebhook)

	public := r.Group("/api")
	public.GET("/transformations", d.Images.ListTransformations)
	public.GET("/plans", plans.ListPlans)
	public.GET("/images", d.Cache.Middleware(imagesapi.HomePath), d.Images.ListImages)
	public.GET("/images/:id", d.Images.GetImage)

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.SanitizeAndCleanInputMiddleware(), middleware.AuthMiddleware(d.ClerkKey, d.Resolver, d.Logger))
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/profile/images", d.Images.ListProfileImages)
	auth.POST("/checkout", d.Billing.CreateCheckoutSession)
	auth.GET("/transactions", d.Billing.GetTransactionHistory)

	// Editing spends credits
	editing := auth.Group("/")
	editing.Use(middleware.RequireCredits(form.CreditFee))
	editing.POST("/images/upload", d.Images.Upload)
	editing.POST("/transformations/preview", d.Images.Preview)
	editing.POST("/images", d.Images.CreateImage)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.ClerkKey, d.Resolver, d.Logger), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", d.Admin.ListAllUsers)
	admin.GET("/users/:id", d.Admin.GetUserDetails)
	admin.GET("/transactions", d.Admin.ListAllTransactions)
	admin.GET("/stats", d.Admin.GetAdminStats)
}
