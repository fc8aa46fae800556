package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	messagingapp "github.com/marketplace/backend/internal/application/messaging"
	shoppingapp "github.com/marketplace/backend/internal/application/shopping"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/marketplace/backend/internal/realtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token blacklist backs logout; Redis being down should not keep
	// the whole service from starting.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		defer func() {
			_ = redisBlacklist.Close()
		}()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)

	// Realtime plumbing: the registry tracks live connections, the
	// message router serves the websocket path and the REST publishers,
	// the notifier pushes out-of-band events.
	registry := realtime.NewRegistry(log)
	rtRouter := realtime.NewRouter(registry, conversationRepo, userRepo, productRepo, log)
	notifier := realtime.NewNotifier(registry)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	resolver := identityapp.NewResolver(jwtService, blacklist, userRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, notifier, log)
	userService := identityapp.NewUserService(userRepo, notifier, log)
	productService := catalogapp.NewProductService(productRepo, userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	commissionPct := decimal.NewFromFloat(cfg.Commission.Percentage)
	orderService := tradeapp.NewOrderService(orderRepo, commissionRepo, productRepo, userRepo, notifier, commissionPct, log)
	commissionService := tradeapp.NewCommissionService(commissionRepo, log)
	conversationService := messagingapp.NewConversationService(conversationRepo, productRepo, userRepo, rtRouter, notifier, log)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, log)
	wishlistService := shoppingapp.NewWishlistService(wishlistRepo, productRepo, log)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("Failed to register request validators", zap.Error(err))
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	authMW := middleware.Auth(resolver, log)
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	cartHandler := handler.NewCartHandler(cartService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	adminHandler := handler.NewAdminHandler(userService, commissionService, registry)
	systemHandler := handler.NewSystemHandler()
	wsHandler := handler.NewWebSocketHandler(resolver, registry, rtRouter, cfg.Realtime, log)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/ws", wsHandler.Serve)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.NewAuthRoutes(authHandler, authMW)).
		Register(router.NewCatalogRoutes(productHandler, categoryHandler, userHandler, authMW, adminOnly)).
		Register(router.NewTradeRoutes(orderHandler, authMW)).
		Register(router.NewShoppingRoutes(cartHandler, wishlistHandler, authMW)).
		Register(router.NewMessagingRoutes(conversationHandler, authMW)).
		Register(router.NewAdminRoutes(adminHandler, authMW, adminOnly)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
