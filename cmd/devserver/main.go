// devserver runs the storefront backend against sqlite (default) or
// postgres, with Redis as the cart cache. It is the backend the checkout
// client talks to in development.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Json604/labubu-ecom/internal/domain"
	"github.com/Json604/labubu-ecom/internal/server"
	"github.com/Json604/labubu-ecom/internal/server/cache"
	"github.com/Json604/labubu-ecom/internal/server/repository"
)

type Config struct {
	HTTPPort        string
	DBDriver        string
	DBDSN           string
	MigrationsPath  string
	RedisAddr       string
	JWTSecret       string
	ProviderKeyID   string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", repository.DriverSQLite),
		DBDSN:           getEnv("DB_DSN", "./storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/server/repository/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		ProviderKeyID:   getEnv("PROVIDER_KEY_ID", "rzp_test_dev"),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// seedCatalog is inserted on first boot so the store is not empty.
var seedCatalog = []domain.Product{
	{ID: "lbb-001", Name: "Labubu Exciting Macaron", Price: 1599, Edition: "Exciting Macaron", Stock: 25},
	{ID: "lbb-002", Name: "Labubu Have a Seat", Price: 1899, Edition: "Have a Seat", Stock: 18},
	{ID: "lbb-003", Name: "Labubu Big into Energy", Price: 2099, Edition: "Big into Energy", Stock: 12},
	{ID: "lbb-004", Name: "Labubu Fall in Wild", Price: 2499, Edition: "Fall in Wild", Stock: 8},
	{ID: "lbb-005", Name: "Labubu Time to Chill", Price: 3299, Edition: "Time to Chill", Stock: 5},
}

func main() {
	cfg := loadConfig()

	repo, err := repository.NewRepository(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if err := repo.SeedProducts(context.Background(), seedCatalog); err != nil {
		log.Fatalf("failed to seed products: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
	}

	srv := server.New(server.Config{
		JWTSecret:     cfg.JWTSecret,
		ProviderKeyID: cfg.ProviderKeyID,
	}, repo, cache.NewRedisCache(redisClient))

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront backend starting on :%s (db=%s)", cfg.HTTPPort, cfg.DBDriver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
