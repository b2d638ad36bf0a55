package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mipipizza/order-system/internal/api/handler"
	"github.com/mipipizza/order-system/internal/api/middleware"
	"github.com/mipipizza/order-system/internal/core/service"
	"github.com/mipipizza/order-system/internal/infrastructure/config"
	mongorepo "github.com/mipipizza/order-system/internal/infrastructure/db/mongo"
	redisdb "github.com/mipipizza/order-system/internal/infrastructure/db/redis"
	"github.com/mipipizza/order-system/internal/notify"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, hub *notify.Hub, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("pizzeria"))

	// --- Dependencies ---
	orderRepo := mongorepo.NewOrderRepository(db)
	archiveRepo := mongorepo.NewArchiveRepository(db)
	userRepo := mongorepo.NewUserRepository(db)
	pizzaRepo := mongorepo.NewPizzaRepository(db)
	salesCache := redisdb.NewSalesCache(rdb)

	orderService := service.NewOrderService(orderRepo, archiveRepo, hub, salesCache, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	salesService := service.NewSalesService(archiveRepo, salesCache, log)

	orderHandler := handler.NewOrderHandler(orderService)
	adminHandler := handler.NewAdminHandler(orderService, salesService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo, authService)
	pizzaHandler := handler.NewPizzaHandler(pizzaRepo)
	wsHandler := handler.NewWSHandler(hub)

	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify, authRequired)

	// --- Customer order routes ---
	orders := e.Group("/orders", authRequired)
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/active-order", orderHandler.ActiveOrder)
	orders.PUT("/:id", orderHandler.UpdateStatus)
	orders.PUT("/:id/cancel", orderHandler.Cancel)
	orders.DELETE("/:id", orderHandler.Delete)

	// --- Staff dashboard routes ---
	admin := e.Group("/admin", authRequired, adminOnly)
	admin.GET("/orders", adminHandler.ListOrders)
	admin.PUT("/orders/:id", adminHandler.UpdateStatus)
	admin.PUT("/orders/:id/markAsPaid", adminHandler.MarkAsPaid)
	admin.PUT("/orders/:id/cancel", adminHandler.Cancel)
	admin.GET("/sales", adminHandler.Sales)
	admin.GET("/canceled-orders", adminHandler.CanceledOrders)

	// --- Cart and account routes ---
	e.GET("/users/cart", userHandler.Cart, authRequired)
	e.PUT("/users/cart", userHandler.SaveCart, authRequired)
	e.POST("/users", userHandler.CreateUser, authRequired, adminOnly)
	e.PUT("/users/:id", userHandler.UpdateUser, authRequired, adminOnly)
	e.DELETE("/users/:id", userHandler.DeleteUser, authRequired, adminOnly)

	// --- Catalog routes ---
	e.GET("/pizzas", pizzaHandler.List)
	e.POST("/pizzas", pizzaHandler.Create, authRequired, adminOnly)
	e.PUT("/pizzas/:id", pizzaHandler.Update, authRequired, adminOnly)
	e.DELETE("/pizzas/:id", pizzaHandler.Delete, authRequired, adminOnly)

	// --- Real-time fan-out ---
	e.GET("/ws", wsHandler.Subscribe)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
