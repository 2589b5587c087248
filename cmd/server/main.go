package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/api"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/cache"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/config"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/ingest"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/store"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

// csvSource serves a fixed normalized snapshot loaded once at startup, for
// running without a database.
type csvSource struct{ recs []orders.OrderRecord }

func (s csvSource) LoadOrders(ctx context.Context) ([]orders.OrderRecord, error) {
	return s.recs, nil
}

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	ctx := context.Background()

	// Order source: Postgres when configured, otherwise a CSV snapshot
	// (local path or S3 object).
	var source api.OrderSource
	var st *store.Store

	switch {
	case cfg.Database.Enabled && cfg.Database.URL != "":
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		st = store.New(db)
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		source = st
		log.Println("[server] order source: postgres")

	case cfg.Ingest.S3Bucket != "" && cfg.Ingest.S3Key != "":
		loader, err := ingest.NewS3Loader(ctx, cfg.Ingest.S3Region, cfg.Ingest.AWSProfile, cfg.Ingest.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to build S3 loader: %v", err)
		}
		recs, err := loader.Load(ctx, cfg.Ingest.S3Key)
		if err != nil {
			log.Fatalf("Failed to load orders from S3: %v", err)
		}
		source = csvSource{recs: recs}
		log.Printf("[server] order source: s3://%s/%s (%d records)", cfg.Ingest.S3Bucket, cfg.Ingest.S3Key, len(recs))

	case cfg.Ingest.CSVPath != "":
		recs, err := ingest.ReadOrdersFile(cfg.Ingest.CSVPath)
		if err != nil {
			log.Fatalf("Failed to load orders from %s: %v", cfg.Ingest.CSVPath, err)
		}
		source = csvSource{recs: recs}
		log.Printf("[server] order source: %s (%d records)", cfg.Ingest.CSVPath, len(recs))

	default:
		log.Fatal("No order source configured: set database.url, ingest.csv_path, or ingest.s3_bucket/s3_key")
	}

	handlers := api.NewHandlers(source, cfg)
	if st != nil {
		handlers.SetRunSink(st)
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("[server] redis unavailable, running without result cache: %v", err)
		} else {
			handlers.SetCache(cache.New(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second))
			log.Printf("[server] result cache: redis %s", cfg.Redis.Addr)
		}
	}

	server := api.NewServer(cfg.Server, handlers)
	addr := fmt.Sprintf("%s:%d", host, port)

	go func() {
		log.Printf("[server] listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil {
			log.Printf("[server] stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
	log.Println("[server] bye")
}
