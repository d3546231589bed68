package main

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/layer-3/anteroom/adapters/events"
	"github.com/layer-3/anteroom/adapters/noncestore"
	"github.com/layer-3/anteroom/adapters/store"
	"github.com/layer-3/anteroom/adapters/tokenizer"
	"github.com/layer-3/anteroom/service"
	"github.com/layer-3/anteroom/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Required configuration; requests cannot recover from any of these
	// missing, so startup fails instead.
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("REDIS_URL is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		log.Fatal("DATABASE_PATH is required")
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":9000"
	}

	// Parse Redis URL and create client; the nonce store and the login
	// result publisher share it.
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	accounts, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}
	defer accounts.Close()

	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}
	defer publisher.Close()

	authService := service.NewAuthService(
		noncestore.NewRedisStore(redisClient),
		accounts,
		tokenizer.NewJWTTokenizer([]byte(secret)),
		events.NewWatermillPublisher(publisher),
	)

	router := http.SetupRouter(authService)

	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
