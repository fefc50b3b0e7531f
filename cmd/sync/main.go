package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/courtdata/gamelog/internal/config"
	"github.com/courtdata/gamelog/internal/ingest"
	"github.com/courtdata/gamelog/internal/ingest/bbref"
	"github.com/courtdata/gamelog/internal/ingest/csvimport"
	"github.com/courtdata/gamelog/internal/ingest/statsapi"
	"github.com/courtdata/gamelog/internal/store"
	"github.com/courtdata/gamelog/internal/store/csvstore"
	"github.com/courtdata/gamelog/internal/store/sqlstore"
)

const (
	appName    = "gamelog-sync"
	appVersion = "1.0.0"
)

func main() {
	var (
		configPath = flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "Path to YAML config file")
		source     = flag.String("source", "api", "Ingestion source: api, csv, or html")
		season     = flag.String("season", "", "Season to fetch from the stats API (e.g., 2024-25)")
		file       = flag.String("file", "", "CSV file to import (source csv)")
		url        = flag.String("url", "", "Game-log page URL (source html)")
		playerID   = flag.String("player-id", "", "Player identifier for the html source")
		playerName = flag.String("player-name", "", "Player name for the html source")
	)

	flag.Parse()

	log.Printf("=== %s v%s ===", appName, appVersion)

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

	src, err := buildSource(cfg, *source, *season, *file, *url, *playerID, *playerName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := ingest.NewService(rowStore).Run(ctx, src)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	log.Printf("✓ Sync completed: %d fetched, %d dropped, %d inserted",
		summary.Fetched, summary.Dropped, summary.Inserted)
}

func buildSource(cfg config.Config, source, season, file, url, playerID, playerName string) (ingest.Source, error) {
	switch source {
	case "api":
		if season == "" {
			season = cfg.Ingest.Season
		}
		client := statsapi.NewClient(cfg.Ingest.StatsAPIBase)
		return statsapi.NewSource(client, season), nil
	case "csv":
		if file == "" {
			return nil, fmt.Errorf("--file is required for the csv source")
		}
		return csvimport.NewSource(file), nil
	case "html":
		if url == "" || playerID == "" || playerName == "" {
			return nil, fmt.Errorf("--url, --player-id, and --player-name are required for the html source")
		}
		return bbref.NewSource(bbref.NewClient(), url, playerID, playerName), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want api, csv, or html)", source)
	}
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
