package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/loja-storefront/internal/mockapi"
	"github.com/example/loja-storefront/internal/mockapi/store"
)

func main() {
	addr := getEnv("ADDR", ":8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("[MockAPI] JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[MockAPI] JWT_SECRET must be at least 32 characters long")
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Fatalf("[MockAPI] Invalid TOKEN_TTL: %v", err)
	}

	log.Println("[MockAPI] ========================================")
	log.Println("[MockAPI] Loja Storefront - Dev Backend")
	log.Println("[MockAPI] ========================================")

	// Storage backend: PostgreSQL when DATABASE_URL is set, in-memory
	// otherwise.
	var st store.Store
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := store.ConnectPostgres(connStr)
		if err != nil {
			log.Fatalf("[MockAPI] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		pg, err := store.NewPostgresStore(db)
		if err != nil {
			log.Fatalf("[MockAPI] Failed to initialize schema: %v", err)
		}
		st = pg
		log.Println("[MockAPI] Storage: PostgreSQL")
	} else {
		st = store.NewMemoryStore()
		log.Println("[MockAPI] Storage: in-memory (set DATABASE_URL to persist)")
	}

	// Sale events to Kafka are optional.
	var notifier *mockapi.Notifier
	if brokersStr := os.Getenv("KAFKA_BROKERS"); brokersStr != "" {
		brokers := strings.Split(brokersStr, ",")
		topic := getEnv("KAFKA_TOPIC", "loja-sales")
		notifier = mockapi.NewNotifier(brokers, topic)
		defer notifier.Close()
		log.Printf("[MockAPI] Kafka: %v (topic %s)", brokers, topic)
	} else {
		log.Println("[MockAPI] Kafka: disabled (set KAFKA_BROKERS to publish sale events)")
	}

	jwtService := mockapi.NewJWTService(jwtSecret, tokenTTL)
	srv := mockapi.NewServer(st, jwtService, notifier)

	server := &http.Server{
		Addr:    addr,
		Handler: mockapi.NewRouter(srv),
	}

	go func() {
		log.Printf("[MockAPI] Server started on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[MockAPI] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[MockAPI] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MockAPI] Shutdown error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
