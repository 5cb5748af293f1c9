package app

import (
	"farmlink-backend/internal/admin"
	"farmlink-backend/internal/config"
	"farmlink-backend/internal/database"
	"farmlink-backend/internal/health"
	"farmlink-backend/internal/identity"
	"farmlink-backend/internal/listings"
	"farmlink-backend/internal/marketprices"
	"farmlink-backend/internal/messaging"
	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/notifications"
	"farmlink-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// App bundles everything main needs to run and shut down cleanly.
type App struct {
	Fiber     *fiber.App
	DB        *gorm.DB
	Rdb       *redis.Client
	Refresher *marketprices.Refresher
}

// CreateApp builds the Fiber app with all middleware, services and routes.
func CreateApp(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)

	identityClient := &identity.HTTPClient{
		BaseURL:   cfg.IdentityAPIURL,
		SecretKey: cfg.IdentitySecretKey,
	}
	feedClient := &marketprices.HTTPFeedClient{
		BaseURL: cfg.MarketDataAPI,
		APIKey:  cfg.RapidAPIKey,
		APIHost: cfg.RapidAPIHost,
		Timeout: cfg.APITimeout,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(cfg.AllowedOrigin))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Services
	userService := &users.Service{DB: db, Identity: identityClient}
	notificationService := &notifications.Service{DB: db}
	listingService := &listings.Service{DB: db}
	priceService := &marketprices.Service{
		DB:    db,
		Feed:  feedClient,
		Cache: &marketprices.RedisCache{Rdb: rdb, TTL: cfg.PriceCacheTTL},
	}
	messagingService := &messaging.Service{DB: db, Notifications: notificationService}
	adminService := &admin.Service{DB: db}

	protect := middleware.Protect(identityClient, userService)

	// Health
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Market prices
	priceHandlers := &marketprices.Handlers{Service: priceService}
	priceGroup := app.Group("/api/market-prices")
	priceGroup.Get("/", priceHandlers.GetMarketPrices)
	priceGroup.Get("/latest", priceHandlers.GetLatestMarketPrices)
	priceGroup.Post("/", protect, middleware.Admin(), priceHandlers.AddMarketPrice)
	priceGroup.Put("/:id", protect, middleware.Admin(), priceHandlers.UpdateMarketPrice)
	priceGroup.Delete("/:id", protect, middleware.Admin(), priceHandlers.DeleteMarketPrice)

	// Listings
	listingHandlers := &listings.Handlers{Service: listingService}
	listingGroup := app.Group("/api/listings")
	listingGroup.Get("/", listingHandlers.GetListings)
	listingGroup.Post("/", protect, middleware.Farmer(), listingHandlers.CreateListing)
	listingGroup.Get("/user/:id", protect, listingHandlers.GetUserListings)
	listingGroup.Get("/:id", listingHandlers.GetListingByID)
	listingGroup.Put("/:id", protect, listingHandlers.UpdateListing)
	listingGroup.Delete("/:id", protect, listingHandlers.DeleteListing)

	// Messaging
	messagingHandlers := &messaging.Handlers{Service: messagingService}
	messageGroup := app.Group("/api/messages", protect)
	messageGroup.Post("/", messagingHandlers.SendMessage)
	messageGroup.Get("/conversations", messagingHandlers.GetConversations)
	messageGroup.Get("/:userId", messagingHandlers.GetMessages)

	// Notifications
	notificationHandlers := &notifications.Handlers{Service: notificationService}
	notificationGroup := app.Group("/api/notifications", protect)
	notificationGroup.Get("/", notificationHandlers.GetNotifications)
	notificationGroup.Put("/:id/read", notificationHandlers.MarkAsRead)

	// Users + profile
	userHandlers := &users.Handlers{Service: userService}
	app.Get("/api/auth/profile", protect, userHandlers.GetProfile)
	app.Put("/api/auth/profile", protect, userHandlers.UpdateProfile)
	userGroup := app.Group("/api/users")
	userGroup.Get("/farmers/nearby", protect, userHandlers.GetNearbyFarmers)
	userGroup.Get("/", protect, middleware.Admin(), userHandlers.GetUsers)
	userGroup.Get("/:id", protect, middleware.Admin(), userHandlers.GetUserByID)
	userGroup.Put("/:id", protect, middleware.Admin(), userHandlers.UpdateUser)
	userGroup.Delete("/:id", protect, middleware.Admin(), userHandlers.DeleteUser)

	// Admin reports + dashboard
	adminHandlers := &admin.Handlers{Service: adminService}
	adminGroup := app.Group("/api/admin", protect, middleware.Admin())
	adminGroup.Get("/dashboard", adminHandlers.GetDashboardStats)
	adminGroup.Get("/reports", adminHandlers.GetReports)
	adminGroup.Get("/reports/:id", adminHandlers.GetReportByID)
	adminGroup.Put("/reports/:id/resolve", adminHandlers.ResolveReport)
	adminGroup.Put("/reports/:id/dismiss", adminHandlers.DismissReport)

	refresher := &marketprices.Refresher{
		Service:  priceService,
		Interval: cfg.RefreshInterval,
	}

	return &App{Fiber: app, DB: db, Rdb: rdb, Refresher: refresher}, nil
}
