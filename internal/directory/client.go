package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopd/go-order-fulfillment/internal/orders"
)

// ErrNotFound marks a directory answer of "no such record". The fulfillment
// workflow treats it the same as a transient failure, but callers that cache
// results care about the difference.
var ErrNotFound = errors.New("record not found")

// UserClient resolves user identifiers against the user directory over HTTP.
type UserClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *UserClient) ResolveUser(ctx context.Context, id string) (orders.User, error) {
	var u orders.User
	if err := getJSON(ctx, c.HTTP, c.BaseURL+"/users/"+id, &u); err != nil {
		return orders.User{}, err
	}
	if u.ID == "" {
		return orders.User{}, ErrNotFound
	}
	return u, nil
}

// ProductClient resolves product identifiers against the product directory.
type ProductClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *ProductClient) ResolveProduct(ctx context.Context, id string) (orders.Product, error) {
	var p orders.Product
	if err := getJSON(ctx, c.HTTP, c.BaseURL+"/products/"+id, &p); err != nil {
		return orders.Product{}, err
	}
	return p, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("directory call %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("directory call %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("directory call %s: decode: %w", url, err)
	}
	return nil
}
