package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"backoffice-service/internal/api"
	"backoffice-service/internal/config"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
	"backoffice-service/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func main() {
	db, err := connectDBEnv(os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"))
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})

	orderWriter := config.NewKafkaWriter("order-topic")
	sellerWriter := config.NewKafkaWriter("seller-topic")

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	sellerRepo := repository.NewSellerRepository(db)

	orderService := service.NewOrderService(orderRepo, productRepo, orderWriter, rdb)
	sellerService := service.NewSellerService(sellerRepo, sellerWriter)

	orderHandler := api.NewOrderHandler(orderService)
	sellerHandler := api.NewSellerHandler(sellerService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(10),
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "backoffice-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "secret"
	}
	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(api.JwtCustomClaims)
		},
		SigningKey: []byte(jwtSecret),
	}

	orders := e.Group("/orders", echojwt.WithConfig(jwtConfig))
	orders.GET("/products/:product_id", orderHandler.GetPurchaseInfo)
	orders.POST("/products/:product_id", orderHandler.PlaceOrder)
	orders.GET("", orderHandler.ListOrders)
	orders.POST("/shipment", orderHandler.AdvanceStatus)
	orders.PUT("/phone-number", orderHandler.CorrectPhoneNumber)
	orders.GET("/:order_id", orderHandler.GetOrderDetail)

	sellers := e.Group("/sellers", echojwt.WithConfig(jwtConfig))
	sellers.PUT("/:seller_id/status", sellerHandler.ChangeSellerStatus)
	sellers.GET("/:seller_id/status-histories", sellerHandler.GetStatusHistories)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
