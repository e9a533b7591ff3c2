package fulfillment

import (
	"errors"
	"fmt"
)

// ErrEmptyProductList rejects a request before any lookup is made.
var ErrEmptyProductList = errors.New("product list cannot be empty")

// UserNotFoundError means the user directory could not resolve the
// requested user; no catalog call was made and nothing was written.
type UserNotFoundError struct {
	UserID string
	Err    error
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.UserID)
}

func (e *UserNotFoundError) Unwrap() error { return e.Err }

// LookupFailure records one product identifier that did not resolve.
// NotFound and transient causes are not distinguished; neither is retried.
type LookupFailure struct {
	ProductID string
	Err       error
}

func (f LookupFailure) Reason() string {
	return fmt.Sprintf("Product %s not found", f.ProductID)
}

// ProductsNotFoundError voids the whole order: it carries every failed
// identifier even when other products in the same request resolved.
type ProductsNotFoundError struct {
	Failures []LookupFailure
}

func (e *ProductsNotFoundError) Error() string {
	return fmt.Sprintf("%d product(s) not found", len(e.Failures))
}

func (e *ProductsNotFoundError) Reasons() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Reason()
	}
	return out
}

// PublishError means the order was durably persisted but its creation
// event was not acked. The write is left in place; no compensation runs.
type PublishError struct {
	OrderID string
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish order-created event for order %s: %v", e.OrderID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
