package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	kafkax "github.com/shopd/go-order-fulfillment/internal/kafka"
	"github.com/shopd/go-order-fulfillment/internal/orders"
)

// maxCatalogFanout bounds the number of in-flight catalog lookups per request.
const maxCatalogFanout = 16

// UserDirectory resolves a user identifier against the user directory.
type UserDirectory interface {
	ResolveUser(ctx context.Context, id string) (orders.User, error)
}

// ProductCatalog resolves a product identifier against the product directory.
type ProductCatalog interface {
	ResolveProduct(ctx context.Context, id string) (orders.Product, error)
}

// OrderStore persists composed orders. Create assigns the order id.
type OrderStore interface {
	Create(ctx context.Context, o orders.Order) (orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
}

// EventPublisher delivers one message to the order-events topic and
// returns only after the broker acked it.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

type OrderRequest struct {
	UserID     string
	ProductIDs []string
}

// Service runs the fulfillment workflow: resolve the user, resolve every
// product concurrently, persist the composed order, publish the
// order-created event, then answer the caller.
type Service struct {
	Users     UserDirectory
	Catalog   ProductCatalog
	Store     OrderStore
	Publisher EventPublisher
	Name      string // producer name stamped into event headers
}

func (s *Service) Submit(ctx context.Context, req OrderRequest) (orders.Order, error) {
	if len(req.ProductIDs) == 0 {
		return orders.Order{}, ErrEmptyProductList
	}

	user, err := s.Users.ResolveUser(ctx, req.UserID)
	if err != nil {
		return orders.Order{}, &UserNotFoundError{UserID: req.UserID, Err: err}
	}

	products, failures := s.resolveProducts(ctx, req.ProductIDs)
	if len(failures) > 0 {
		return orders.Order{}, &ProductsNotFoundError{Failures: failures}
	}

	order := orders.Order{
		ProductList: products,
		Username:    user.Name,
		Email:       user.Email,
		PhoneNo:     user.Phone,
		Location:    user.Location,
	}
	saved, err := s.Store.Create(ctx, order)
	if err != nil {
		return orders.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := s.publishCreated(ctx, saved); err != nil {
		// The order is already durable; surface the failure instead of
		// masking it or deleting the write.
		return orders.Order{}, &PublishError{OrderID: saved.ID, Err: err}
	}
	return saved, nil
}

// ListOrders returns every persisted order.
func (s *Service) ListOrders(ctx context.Context) ([]orders.Order, error) {
	return s.Store.ListAll(ctx)
}

// resolveProducts fans out one lookup per requested id and joins on all of
// them before reporting. Goroutines never return an error: a failed lookup
// lands in its slot so one miss cannot cancel the rest of the fan-out.
// Slots are indexed by request position, which keeps the resolved list in
// request order regardless of completion order.
func (s *Service) resolveProducts(ctx context.Context, ids []string) ([]orders.Product, []LookupFailure) {
	type slot struct {
		product orders.Product
		err     error
	}
	slots := make([]slot, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(maxCatalogFanout)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.Catalog.ResolveProduct(ctx, id)
			slots[i] = slot{product: p, err: err}
			return nil
		})
	}
	_ = g.Wait() // join barrier; goroutines are error-free by construction

	products := make([]orders.Product, 0, len(ids))
	var failures []LookupFailure
	for i, sl := range slots {
		if sl.err != nil {
			failures = append(failures, LookupFailure{ProductID: ids[i], Err: sl.err})
			continue
		}
		products = append(products, sl.product)
	}
	return products, failures
}

func (s *Service) publishCreated(ctx context.Context, o orders.Order) error {
	ev := orders.OrderCreatedEvent{
		OrderID:  o.ID,
		Email:    o.Email,
		Products: o.ProductList,
	}
	return s.Publisher.Publish(ctx, orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-id", Value: []byte(uuid.NewString())},
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-producer", Value: []byte(s.Name)},
		kafkago.Header{Key: "x-occurred-at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	)
}
