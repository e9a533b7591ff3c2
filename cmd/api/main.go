package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopd/go-order-fulfillment/internal/config"
	"github.com/shopd/go-order-fulfillment/internal/directory"
	"github.com/shopd/go-order-fulfillment/internal/fulfillment"
	"github.com/shopd/go-order-fulfillment/internal/httpx"
	kafkax "github.com/shopd/go-order-fulfillment/internal/kafka"
	"github.com/shopd/go-order-fulfillment/internal/orders"
	"github.com/shopd/go-order-fulfillment/internal/postgres"
	"github.com/shopd/go-order-fulfillment/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (sync: publish is acked before a request succeeds)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents)
	defer prod.Close()

	// Directory clients; catalog lookups go through the redis cache.
	users := directory.NewUserClient(cfg.UserServiceURL, cfg.LookupTimeout)
	catalog := &directory.CachedCatalog{
		Inner: directory.NewProductClient(cfg.ProductServiceURL, cfg.LookupTimeout),
		Cache: &directory.RedisCache{RDB: rdb},
	}

	svc := &fulfillment.Service{
		Users:     users,
		Catalog:   catalog,
		Store:     &orders.Repo{DB: db},
		Publisher: prod,
		Name:      cfg.ServiceName,
	}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{Service: svc}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
