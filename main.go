package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gin-inventory/clients"
	"gin-inventory/config"
	"gin-inventory/constants"
	"gin-inventory/controllers"
	"gin-inventory/dto"
	"gin-inventory/infra"
	"gin-inventory/middlewares"
	"gin-inventory/repositories"
	"gin-inventory/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// externalClients bundles everything that talks to a third party so tests can
// swap them out.
type externalClients struct {
	catalog  clients.IBookCatalog
	barcodes clients.IBarcodeLookup
	recipes  clients.IRecipeSearch
	ai       clients.IChatCompleter
	mailer   clients.IMailer
	storage  clients.IObjectStorage
}

func newExternalClients(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (externalClients, error) {
	ic := cfg.Integration
	mailer, err := clients.NewMailer(ctx, cfg.Mail, logger)
	if err != nil {
		return externalClients{}, err
	}

	ec := externalClients{
		catalog: clients.NewFallbackCatalog(logger,
			clients.NewGoogleBooksClient(ic.GoogleBooksURL, ic.GoogleBooksAPIKey, ic.HTTPTimeout),
			clients.NewOpenBDClient(ic.OpenBDURL, ic.HTTPTimeout),
		),
		barcodes: clients.NewJANCodeClient(ic.JANCodeURL, ic.JANCodeAppID, ic.HTTPTimeout),
		recipes:  clients.NewRakutenRecipeClient(ic.RakutenRecipeURL, ic.RakutenAppID, ic.HTTPTimeout),
		ai:       clients.NewOpenAIClient(ic.OpenAIURL, ic.OpenAIAPIKey, ic.OpenAIModel, ic.HTTPTimeout),
		mailer:   mailer,
	}

	storage, err := clients.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		return externalClients{}, err
	}
	// nilの*S3Storageをインターフェースに入れない
	if storage != nil {
		ec.storage = storage
	}
	return ec, nil
}

func setupRouter(cfg *config.Config, db *gorm.DB, ec externalClients, hub *services.RealtimeHub, clock services.Clock, logger zerolog.Logger) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	authRepository := repositories.NewAuthRepository(db)
	tokenRepository := repositories.NewTokenRepository(db)
	authService := services.NewAuthService(authRepository, tokenRepository, ec.mailer, cfg.Auth, cfg.Mail.FrontendResetURL, logger)
	authController := controllers.NewAuthController(authService)

	bookRepository := repositories.NewBookRepository(db)
	bookService := services.NewBookService(bookRepository, ec.catalog, ec.ai, ec.storage, logger)
	bookController := controllers.NewBookController(bookService)

	foodRepository := repositories.NewFoodRepository(db)
	foodService := services.NewFoodService(foodRepository, ec.barcodes, ec.ai, clock, logger)
	recipeService := services.NewRecipeService(foodRepository, ec.recipes, ec.ai, clock, logger)
	foodController := controllers.NewFoodController(foodService, recipeService)

	emergencyRepository := repositories.NewEmergencyRepository(db)
	emergencyService := services.NewEmergencyService(emergencyRepository, clock)
	emergencyController := controllers.NewEmergencyController(emergencyService)

	notificationRepository := repositories.NewNotificationRepository(db)
	notificationService := services.NewNotificationService(notificationRepository, hub, logger)
	notificationController := controllers.NewNotificationController(notificationService, hub, cfg.Server.CORSAllowedOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middlewares.AuthMiddleware(authService)
	api := r.Group("/api")

	authRouter := api.Group("/auth")
	authRouterWithAuth := api.Group("/auth", auth)
	authRouter.POST("/register", authController.Register)
	authRouter.POST("/login", authController.Login)
	authRouter.POST("/request-password-reset", authController.RequestPasswordReset)
	authRouter.POST("/reset-password", authController.ResetPassword)
	authRouter.POST("/logout", authController.Logout)
	authRouterWithAuth.GET("/me", authController.Me)
	authRouterWithAuth.PUT("/me", authController.UpdateMe)
	authRouterWithAuth.PUT("/me/password", authController.ChangePassword)

	bookRouter := api.Group("/books", auth)
	bookRouter.GET("", bookController.FindAll)
	bookRouter.POST("", bookController.Create)
	bookRouter.GET("/wishlist", bookController.Wishlist)
	bookRouter.POST("/wishlist", bookController.AddToWishlist)
	bookRouter.GET("/favorites", bookController.Favorites)
	bookRouter.GET("/recommendations", bookController.Recommendations)
	bookRouter.GET("/search", bookController.Search)
	bookRouter.GET("/lookup/:isbn", bookController.Lookup)
	bookRouter.POST("/register-by-isbn", bookController.RegisterByISBN)
	bookRouter.POST("/register-by-title", bookController.RegisterByTitle)
	bookRouter.GET("/:id", bookController.FindById)
	bookRouter.PUT("/:id", bookController.Update)
	bookRouter.DELETE("/:id", bookController.Delete)
	bookRouter.PATCH("/:id/favorite", bookController.ToggleFavorite)
	bookRouter.PATCH("/:id/status", bookController.UpdateStatus)
	bookRouter.PUT("/:id/cover", bookController.UploadCover)

	foodRouter := api.Group("/foods", auth)
	foodRouter.GET("", foodController.FindAll)
	foodRouter.POST("", foodController.Create)
	foodRouter.GET("/by_category", foodController.FindByCategory)
	foodRouter.GET("/expiring_soon", foodController.ExpiringSoon)
	foodRouter.GET("/categories", foodController.Categories)
	foodRouter.GET("/options", foodController.Options)
	foodRouter.GET("/barcode/:code", foodController.LookupBarcode)
	foodRouter.POST("/register-by-barcode", foodController.RegisterByBarcode)
	foodRouter.GET("/recipe_suggestions", foodController.RecipeSuggestions)
	foodRouter.GET("/recipe_by_main_food", foodController.RecipeByMainFood)
	foodRouter.GET("/:id", foodController.FindById)
	foodRouter.PUT("/:id", foodController.Update)
	foodRouter.DELETE("/:id", foodController.Delete)
	foodRouter.POST("/:id/use", foodController.Use)

	emergencyRouter := api.Group("/emergency", auth)
	emergencyRouterWithAdminAuth := api.Group("/emergency", auth, middlewares.RoleBasedAccessControl(constants.RoleAdmin))
	emergencyRouter.GET("", emergencyController.FindAll)
	emergencyRouter.POST("", emergencyController.Create)
	emergencyRouter.GET("/expiring", emergencyController.Expiring)
	emergencyRouter.GET("/:id", emergencyController.FindById)
	emergencyRouter.PUT("/:id", emergencyController.Update)
	emergencyRouterWithAdminAuth.DELETE("/:id", emergencyController.Delete)

	notificationRouter := api.Group("/notifications", auth)
	notificationRouter.GET("", notificationController.Unread)
	notificationRouter.GET("/all", notificationController.FindAll)
	notificationRouter.GET("/stream", notificationController.Stream)
	notificationRouter.PATCH("/read-all", notificationController.MarkAllRead)
	notificationRouter.PATCH("/:id/read", notificationController.MarkRead)

	return r, nil
}

func newScheduler(cfg *config.Config, db *gorm.DB, hub *services.RealtimeHub, clock services.Clock, logger zerolog.Logger) services.ISchedulerService {
	notificationRepository := repositories.NewNotificationRepository(db)
	return services.NewSchedulerService(
		cfg.Scheduler,
		repositories.NewBookRepository(db),
		repositories.NewFoodRepository(db),
		repositories.NewEmergencyRepository(db),
		notificationRepository,
		repositories.NewTokenRepository(db),
		services.NewNotificationService(notificationRepository, hub, logger),
		clock,
		logger,
	)
}

func main() {
	cfg, logger, err := infra.Initialize(os.Getenv("INVENTORY_CONFIG_FILE"))
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := infra.SetupDB(cfg.Database, cfg.Env, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if cfg.Database.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	ec, err := newExternalClients(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up external clients")
	}

	hub := services.NewRealtimeHub()
	clock := services.SystemClock(cfg.Scheduler.Location())

	r, err := setupRouter(cfg, db, ec, hub, clock, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up router")
	}

	scheduler := newScheduler(cfg, db, hub, clock, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		logger.Warn().Msg("Scheduled job still running at shutdown")
	}
	logger.Info().Msg("Server exited")
}
