package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/skybridge/travel-assist-backend/internal/config"
	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/handlers"
	"github.com/skybridge/travel-assist-backend/internal/middleware"
	"github.com/skybridge/travel-assist-backend/internal/services"
	"github.com/skybridge/travel-assist-backend/pkg/jwt"
	"github.com/skybridge/travel-assist-backend/pkg/metrics"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	logrus.Info("Starting Travel Assist Backend")
	logrus.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logrus.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logrus.Info("Database connection established")

	// Services
	jwtService := jwt.NewService(jwt.Settings{
		Issuer:               cfg.JWT.Issuer,
		Audience:             cfg.JWT.Audience,
		SecretKey:            cfg.JWT.SecretKey,
		TokenLifetimeMinutes: cfg.JWT.TokenLifetimeMinutes,
	})
	appMetrics := metrics.NewMetrics("travel_assist")

	// Repositories
	userRepo := database.NewUserRepository(db)
	fcRequestRepo := database.NewFlightCompanionRequestRepository(db)
	fcOfferRepo := database.NewFlightCompanionOfferRepository(db)
	pickupRequestRepo := database.NewPickupRequestRepository(db)
	pickupOfferRepo := database.NewPickupOfferRepository(db)
	paymentRepo := database.NewPaymentRepository(db)

	matchingService := services.NewMatchingService(db)
	statsService := services.NewStatsService(
		userRepo, fcRequestRepo, fcOfferRepo,
		pickupRequestRepo, pickupOfferRepo, paymentRepo,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService, cfg.Security.BcryptCost)
	userHandler := handlers.NewUserHandler(userRepo, paymentRepo, statsService)
	fcHandler := handlers.NewFlightCompanionHandler(fcRequestRepo, fcOfferRepo, matchingService)
	pickupHandler := handlers.NewPickupHandler(pickupRequestRepo, pickupOfferRepo, matchingService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(appMetrics))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Browse endpoints are public; everything that writes or reads
		// private data requires a bearer token.
		api.GET("/flight-companion/requests", fcHandler.ListRequests)
		api.GET("/flight-companion/requests/:id", fcHandler.GetRequest)
		api.GET("/flight-companion/offers", fcHandler.ListOffers)
		api.GET("/flight-companion/offers/:id", fcHandler.GetOffer)
		api.GET("/pickup/requests", pickupHandler.ListRequests)
		api.GET("/pickup/requests/:id", pickupHandler.GetRequest)
		api.GET("/pickup/offers", pickupHandler.ListOffers)
		api.GET("/pickup/offers/:id", pickupHandler.GetOffer)

		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware(jwtService))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", userHandler.GetProfile)
				user.PUT("/profile", userHandler.UpdateProfile)
				user.GET("/stats", userHandler.GetStats)
				user.GET("/my-requests-offers", userHandler.GetMyRequestsOffers)
				user.POST("/verification", userHandler.SubmitVerification)
				user.GET("/payments", userHandler.GetPayments)
			}

			fc := authenticated.Group("/flight-companion")
			{
				fc.POST("/requests", fcHandler.CreateRequest)
				fc.PUT("/requests/:id", fcHandler.UpdateRequest)
				fc.DELETE("/requests/:id", fcHandler.DeleteRequest)
				fc.POST("/requests/:id/match", fcHandler.MatchRequest)
				fc.POST("/offers", fcHandler.CreateOffer)
				fc.PUT("/offers/:id", fcHandler.UpdateOffer)
				fc.DELETE("/offers/:id", fcHandler.DeleteOffer)
			}

			pickup := authenticated.Group("/pickup")
			{
				pickup.POST("/requests", pickupHandler.CreateRequest)
				pickup.PUT("/requests/:id", pickupHandler.UpdateRequest)
				pickup.DELETE("/requests/:id", pickupHandler.DeleteRequest)
				pickup.POST("/requests/:id/match", pickupHandler.MatchRequest)
				pickup.POST("/offers", pickupHandler.CreateOffer)
				pickup.PUT("/offers/:id", pickupHandler.UpdateOffer)
				pickup.DELETE("/offers/:id", pickupHandler.DeleteOffer)
			}
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited successfully")
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
