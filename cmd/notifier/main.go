package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopd/go-order-fulfillment/internal/config"
	kafkax "github.com/shopd/go-order-fulfillment/internal/kafka"
	"github.com/shopd/go-order-fulfillment/internal/notifier"
	"github.com/shopd/go-order-fulfillment/internal/orders"
	"github.com/shopd/go-order-fulfillment/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Mailer: &notifier.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
		},
		Dedup: &notifier.RedisDeduper{RDB: rdb},
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderEvents, cfg.NotifierWorkers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d",
			cfg.NotifierGroup, orders.TopicOrderEvents, cfg.NotifierWorkers)
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
