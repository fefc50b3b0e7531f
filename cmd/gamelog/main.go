package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/courtdata/gamelog/internal/api/rest"
	"github.com/courtdata/gamelog/internal/cache"
	"github.com/courtdata/gamelog/internal/config"
	"github.com/courtdata/gamelog/internal/store"
	"github.com/courtdata/gamelog/internal/store/csvstore"
	"github.com/courtdata/gamelog/internal/store/sqlstore"
)

const (
	serviceName    = "gamelog"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "Path to YAML config file")
	flag.Parse()

	log.Printf("Starting %s v%s - Player Game-Log Service", serviceName, serviceVersion)

	// .env is optional, used in local development only.
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rowStore, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open %s row store: %v", cfg.Store.Backend, err)
	}
	defer rowStore.Close()

	log.Printf("✓ Row store ready (backend: %s)", cfg.Store.Backend)

	// The cache is an optional accelerator. A missing Redis never
	// keeps the service from answering queries.
	var queryCache *cache.Cache
	if cfg.Cache.RedisURL != "" {
		queryCache, err = cache.New(cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable: %v (continuing without cache)", err)
			queryCache = nil
		} else {
			defer queryCache.Close()
			log.Println("✓ Connected to Redis")
		}
	}

	restServer := rest.NewServer(cfg.Server.Port, rowStore, queryCache, cfg.Cache.TTL)
	go func() {
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API listening on :%s", cfg.Server.Port)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Printf("Shutting down %s gracefully...", serviceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

func openStore(cfg config.StoreConfig) (store.RowStore, error) {
	if cfg.Backend == "csv" {
		return csvstore.Open(cfg.Path)
	}
	return sqlstore.Open(cfg.Backend, cfg.DSN)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
