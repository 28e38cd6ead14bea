package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/crocshop/cart-service/pkg/idempotency"
	"github.com/crocshop/cart-service/pkg/logging"
	"github.com/crocshop/cart-service/pkg/shutdown"
	"github.com/crocshop/cart-service/pkg/tracing"

	cartapp "github.com/crocshop/cart-service/internal/cart/application"
	carthttp "github.com/crocshop/cart-service/internal/cart/infrastructure/http"
	cartkafka "github.com/crocshop/cart-service/internal/cart/infrastructure/kafka"
	catalogapp "github.com/crocshop/cart-service/internal/catalog/application"
	"github.com/crocshop/cart-service/internal/catalog/domain"
	cataloghttp "github.com/crocshop/cart-service/internal/catalog/infrastructure/http"
	catalogmem "github.com/crocshop/cart-service/internal/catalog/infrastructure/memory"
	catalogpg "github.com/crocshop/cart-service/internal/catalog/infrastructure/postgres"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Configuration
	httpAddr := env("HTTP_ADDR", ":8080")
	pgURL := os.Getenv("PG_URL")
	kafkaAddr := os.Getenv("KAFKA_ADDR")
	redisAddr := os.Getenv("REDIS_ADDR")
	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")
	notifyTopic := env("NOTIFY_TOPIC", "cart.notifications")

	if otlpEndpoint != "" {
		tp, err := tracing.Init(ctx, "cart-service", otlpEndpoint, log)
		if err != nil {
			log.Error("otel init failed", "err", err)
			os.Exit(1)
		}
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	// Catalog: Postgres when configured, seeded in-memory otherwise.
	var repo catalogapp.ProductRepository
	if pgURL != "" {
		pool, err := pgxpool.New(ctx, pgURL)
		if err != nil {
			log.Error("pg connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = catalogpg.NewRepository(log, pool)
	} else {
		log.Info("no PG_URL set, using seeded in-memory catalog")
		repo = catalogmem.NewRepository(seedProducts())
	}
	catalogSvc := catalogapp.NewService(repo)

	// Notifications: Kafka when configured, log otherwise.
	var notifier cartapp.Notifier
	if kafkaAddr != "" {
		writer := cartkafka.NewWriter([]string{kafkaAddr})
		defer writer.Close()
		notifier = cartkafka.NewNotifier(log, writer, notifyTopic)
	} else {
		notifier = cartapp.NewLogNotifier(log)
	}

	var storeOpts []cartapp.Option
	if env("CART_CLAMP_STOCK", "false") == "true" {
		storeOpts = append(storeOpts, cartapp.WithStockClamp())
	}
	sessions := cartapp.NewSessions(storeOpts...)
	defer sessions.Close()

	cartSvc := cartapp.NewService(log, sessions, catalogSvc, notifier)

	r := chi.NewRouter()
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		idemStore := idempotency.NewStore(rdb, 24*time.Hour)
		r.Use(idempotency.Middleware(log, idemStore))
	}
	r.Mount("/", carthttp.NewHandler(log, cartSvc).Routes())
	r.Mount("/catalog", cataloghttp.NewHandler(log, catalogSvc).Routes())

	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("cart-service shutdown complete")
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "croc-001", Name: "Sunny", Species: "Saltwater Crocodile", Category: "Juvenile", PriceCents: 250_000, StockQuantity: 3, Rating: 4.8, InStock: true},
		{ID: "croc-002", Name: "Snappy", Species: "Nile Crocodile", Category: "Baby", PriceCents: 120_000, StockQuantity: 5, Rating: 4.5, InStock: true},
		{ID: "croc-003", Name: "Bruno", Species: "American Alligator", Category: "Adult", PriceCents: 480_000, StockQuantity: 1, Rating: 4.9, InStock: true},
		{ID: "croc-004", Name: "Delta", Species: "Gharial", Category: "Adult", PriceCents: 530_000, StockQuantity: 0, Rating: 4.7, InStock: false},
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
