package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/shopd/go-order-fulfillment/internal/kafka"
	"github.com/shopd/go-order-fulfillment/internal/orders"
	"github.com/shopd/go-order-fulfillment/internal/redisx"
)

// Mailer sends one confirmation mail. Implemented by SMTPMailer.
type Mailer interface {
	Send(to, subject, body string) error
}

// Deduper remembers order ids that were already notified. order-events is
// at-least-once, so the effect has to be idempotent on orderId.
type Deduper interface {
	Seen(ctx context.Context, orderID string) (bool, error)
	Mark(ctx context.Context, orderID string) error
}

type RedisDeduper struct{ RDB *redis.Client }

func (d *RedisDeduper) Seen(ctx context.Context, orderID string) (bool, error) {
	return redisx.Exists(ctx, d.RDB, fmt.Sprintf(redisx.KeyDedup, "notifier", orderID))
}

func (d *RedisDeduper) Mark(ctx context.Context, orderID string) error {
	return d.RDB.Set(ctx, fmt.Sprintf(redisx.KeyDedup, "notifier", orderID), "1", redisx.TTLDedup).Err()
}

type Service struct {
	Mailer Mailer
	Dedup  Deduper
}

// HandleOrderCreated is wired as the consumer handler for order-events.
// Returning an error leaves the offset uncommitted so the message is
// redelivered; the dedup mark is only set after a successful send.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	ev, err := kafkax.Unmarshal[orders.OrderCreatedEvent](m.Value)
	if err != nil {
		log.Printf("skip malformed order event: %v", err)
		return nil
	}
	if ev.OrderID == "" || ev.Email == "" {
		log.Printf("skip order event missing orderId or email")
		return nil
	}

	seen, err := s.Dedup.Seen(ctx, ev.OrderID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	if err := s.Mailer.Send(ev.Email, "Order Confirmation", confirmationBody(ev)); err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", ev.OrderID, err)
	}
	if err := s.Dedup.Mark(ctx, ev.OrderID); err != nil {
		// Mail went out; a lost mark only risks a duplicate mail later.
		log.Printf("mark notified %s: %v", ev.OrderID, err)
	}
	log.Printf("confirmation sent to %s for order %s", ev.Email, ev.OrderID)
	return nil
}

func confirmationBody(ev orders.OrderCreatedEvent) string {
	list := ""
	for i, p := range ev.Products {
		list += fmt.Sprintf("%d. %s - $%.2f\n", i+1, p.Name, p.Price)
	}
	return fmt.Sprintf("Your order %s has been received!\n\nProducts:\n%s\nThanks for shopping with us!",
		ev.OrderID, list)
}
