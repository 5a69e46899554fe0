package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"drafts-api/config"
	"drafts-api/db"
	"drafts-api/middlewares"
	"drafts-api/routes"
	"drafts-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	dbConfig, err := db.LoadDBConfig()
	if err != nil {
		log.Fatalf("Error loading database config: %v", err)
	}

	bearerToken, pasetoKey := envCheck()
	cfg := config.Load()

	if err := db.InitRedis(); err != nil {
		log.Fatalf("Error initializing Redis: %v", err)
	}
	defer db.RedisClient.Close()

	// Migrate opens db.DB as well
	if err := db.Migrate(db.MigrateConfig{DBURL: dbConfig.DBURL}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	defer db.DB.Close()

	rateLimiter := middlewares.NewRateLimiter(cfg.RateLimit, time.Minute, 2*time.Minute)
	rateLimiter.TrustProxy = cfg.TrustProxy
	defer rateLimiter.Stop()

	handler := routes.SetupRoutes(routes.Dependencies{
		Sessions: &middlewares.RedisSessions{
			Redis:        db.RedisClient,
			Key:          pasetoKey,
			TTL:          cfg.SessionTTL,
			SecureCookie: cfg.CookieSecure,
		},
		Posts:          db.NewCachedPosts(db.NewPostRepository(db.DB), db.RedisClient),
		Users:          db.NewUserRepository(db.DB),
		BearerToken:    bearerToken,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimiter:    rateLimiter,
	})

	srv := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        handler,
		ReadTimeout:    100 * time.Second,
		WriteTimeout:   100 * time.Second,
		MaxHeaderBytes: 7500,
		IdleTimeout:    120 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ListenAddr)

	// Wait for interrupt signal to gracefully shut down the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %+v", err)
	}

	wg.Wait()
	log.Println("Server exited gracefully")
}

// envCheck fails fast on missing secrets.
func envCheck() (string, []byte) {
	bearerToken, err := middlewares.LoadBearerTokenConfig()
	if err != nil {
		log.Fatalf("Error loading bearer token: %v", err)
	}
	log.Println("Bearer token environment variable is set.")

	if _, err := db.LoadRedisConfig(); err != nil {
		log.Fatalf("Error loading Redis config: %v", err)
	}
	log.Println("Redis configuration environment variable is set.")

	pasetoKey, err := utils.GetPasetoSecret()
	if err != nil {
		log.Fatalf("Error retrieving PASETO secret: %v", err)
	}
	log.Println("PASETO secret environment variable is set.")

	return bearerToken, pasetoKey
}
