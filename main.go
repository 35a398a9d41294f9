package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imaginify/config"
	"imaginify/database"
	"imaginify/internal/actions"
	adminapi "imaginify/internal/api/admin"
	"imaginify/internal/api/billing"
	clerkwebhooks "imaginify/internal/api/clerkwebhook"
	imagesapi "imaginify/internal/api/images"
	stripewebhooks "imaginify/internal/api/stripewebhook"
	routes "imaginify/internal/app/http"
	"imaginify/internal/app/http/middleware"
	"imaginify/internal/infra/cache"
	"imaginify/internal/infra/cloudinary"
	"imaginify/internal/infra/events"
	stripeinfra "imaginify/internal/infra/stripe"
	"imaginify/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	manager := database.NewManager(cfg.DBURL, database.WithLogger(logger))
	defer manager.Close()

	userStore := store.NewUsers(manager)
	imageStore := store.NewImages(manager)
	txStore := store.NewTransactions(manager)

	var revalidator actions.Revalidator
	var responseCache *cache.Cache
	if rdb := cache.NewRedisClient(cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		responseCache = cache.New(rdb, cfg.Cache, logger)
		revalidator = responseCache
	}

	var publisher actions.Publisher
	if p := events.NewPublisher(cfg.RabbitURL, logger); p.Enabled() {
		publisher = p
	}

	userActions := actions.NewUserActions(userStore, publisher, logger)
	imageActions := actions.NewImageActions(imageStore, userStore, revalidator, publisher, logger)
	txActions := actions.NewTransactionActions(txStore, publisher, logger)

	var cdn imagesapi.CDN
	if client, err := cloudinary.New(cfg.CloudinaryURL, cfg.CloudinaryFolder, logger); err != nil {
		logger.Warn("image editing disabled", slog.String("error", err.Error()))
	} else {
		cdn = client
	}

	clerkKey, err := middleware.ParseClerkKey(cfg.ClerkJWTKey)
	if err != nil {
		logger.Warn("authenticated routes will reject every request", slog.String("error", err.Error()))
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		ClerkKey:      clerkKey,
		Resolver:      userActions,
		Cache:         responseCache,
		Logger:        logger,
		StripeWebhook: stripewebhooks.NewHandler(cfg.StripeWebhookSecret, txActions, logger),
		ClerkWebhook:  clerkwebhooks.NewHandler(cfg.ClerkWebhookSecret, userActions, logger),
		Images:        imagesapi.NewHandler(imageActions, cdn, logger),
		Billing:       billing.NewHandler(stripeinfra.NewCheckout(cfg.StripeSecretKey, cfg.AppURL), txActions, logger),
		Admin:         adminapi.NewHandler(userStore, txStore, logger),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}
}
