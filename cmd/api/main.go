package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/luxwatch/luxwatch-api/internal/config"
	"github.com/luxwatch/luxwatch-api/internal/handler"
	"github.com/luxwatch/luxwatch-api/internal/middleware"
	"github.com/luxwatch/luxwatch-api/internal/repository"
	"github.com/luxwatch/luxwatch-api/internal/service"
	"github.com/luxwatch/luxwatch-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB
	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	mongoClient, db, err := repository.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	connectCancel()
	if err != nil {
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	log.Info("connected to MongoDB")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, redisClient)
	cartSvc := service.NewCartService(userRepo, productRepo)
	favoritesSvc := service.NewFavoritesService(userRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, userRepo, productRepo, amqpCh)
	paymentSvc := service.NewPaymentService()
	userSvc := service.NewUserService(userRepo, cartSvc)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	favoritesH := handler.NewFavoritesHandler(favoritesSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(mongoClient, redisClient, amqpConn)

	// Worker
	orderWorker := worker.NewOrderWorker(amqpCh, orderRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/recent", productH.Recent)
		products.GET("/:id", productH.GetByID)

		adminProducts := products.Group("", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminOnly())
		adminProducts.POST("", productH.Create)
		adminProducts.PUT("/:id", productH.Update)
		adminProducts.DELETE("/:id", productH.Delete)

		cart := v1.Group("/cart", middleware.AuthMiddleware(cfg.JWT.Secret))
		cart.GET("", cartH.GetCart)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:id", cartH.UpdateQuantity)
		cart.DELETE("/items/:id", cartH.RemoveItem)

		favorites := v1.Group("/favorites", middleware.AuthMiddleware(cfg.JWT.Secret))
		favorites.GET("", favoritesH.List)
		favorites.PUT("/:id", favoritesH.Add)
		favorites.DELETE("/:id", favoritesH.Remove)

		checkout := v1.Group("/checkout", middleware.AuthMiddleware(cfg.JWT.Secret))
		checkout.GET("/summary", orderH.CheckoutSummary)

		orders := v1.Group("/orders", middleware.AuthMiddleware(cfg.JWT.Secret))
		orders.POST("", orderH.PlaceOrder)
		orders.GET("", orderH.ListOrders)
		orders.GET("/:id", orderH.GetOrder)

		payments := v1.Group("/payments", middleware.AuthMiddleware(cfg.JWT.Secret))
		payments.POST("/intent", paymentH.CreateIntent)
		payments.POST("/verify", paymentH.Verify)

		users := v1.Group("/users", middleware.AuthMiddleware(cfg.JWT.Secret))
		users.GET("/me", userH.Me)

		admin := v1.Group("/admin", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminOnly())
		admin.GET("/orders", orderH.ListAllOrders)
		admin.PATCH("/orders/:id/status", orderH.UpdateStatus)
		admin.GET("/users", userH.List)
	}

	if err := orderWorker.Start(ctx); err != nil {
		log.Error("start order worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	orderWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
