package main

import (
	"carrier-match-service/internal/adapters/cache"
	"carrier-match-service/internal/adapters/events"
	"carrier-match-service/internal/adapters/repositories"
	"carrier-match-service/internal/api"
	"carrier-match-service/internal/api/handlers"
	"carrier-match-service/internal/config"
	"carrier-match-service/internal/platform/db"
	"carrier-match-service/internal/ports"
	"carrier-match-service/internal/services"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, Redis, Kafka) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dsn := cfg.DatabaseURL
	if dsn == "" {
		if cfg.DBDriver != db.DriverSQLite {
			log.Fatal("DATABASE_URL is required")
		}
		dsn = "file:data/app.db?_time_format=sqlite"
	}

	conn, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	dialect := repositories.DialectFor(cfg.DBDriver)

	// Local SQLite runs get schema and demo data on startup.
	if cfg.DBDriver == db.DriverSQLite {
		if err := initAndSeed(conn, dialect, cfg.SeedPath); err != nil {
			log.Fatal(err)
		}
	}

	var historyCache ports.HistoryCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		historyCache = cache.NewRedisHistoryCache(client, cfg.HistoryCacheTTL)
		log.Printf("history cache enabled ttl=%s", cfg.HistoryCacheTTL)
	}

	var publisher ports.SearchPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewKafkaSearchPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		publisher = p
		log.Printf("search events enabled topic=%s brokers=%v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	carriers := repositories.NewSQLCarrierRepository(conn, dialect)
	loads := repositories.NewSQLLoadHistoryRepository(conn, dialect)

	search := services.NewCarrierSearch(carriers, loads, historyCache, services.SearchConfig{
		PoolSize:             cfg.Engine.PoolSize,
		ResultCap:            cfg.Engine.ResultCap,
		Parallelism:          cfg.Engine.Parallelism,
		RecentActivityWindow: cfg.Engine.RecentActivityWindow(),
	})

	router := api.NewRouter(&handlers.CarrierHandler{
		Searcher:  search,
		Carriers:  carriers,
		Publisher: publisher,
		Timeout:   cfg.Engine.SearchTimeout,
	})

	// Write timeout leaves headroom over the search deadline so timeouts are reported as 504s.
	log.Printf("Server listening addr=:%s driver=%s", cfg.Port, cfg.DBDriver)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Engine.SearchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	ctx := context.Background()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
