package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopd/go-order-fulfillment/internal/fulfillment"
	"github.com/shopd/go-order-fulfillment/internal/orders"
)

type fakeService struct {
	submitResult orders.Order
	submitErr    error
	lastReq      fulfillment.OrderRequest
	listResult   []orders.Order
	listErr      error
}

func (f *fakeService) Submit(_ context.Context, req fulfillment.OrderRequest) (orders.Order, error) {
	f.lastReq = req
	if f.submitErr != nil {
		return orders.Order{}, f.submitErr
	}
	return f.submitResult, nil
}

func (f *fakeService) ListOrders(_ context.Context) ([]orders.Order, error) {
	return f.listResult, f.listErr
}

func newTestRouter(svc *fakeService) http.Handler {
	r := NewRouter()
	h := &OrdersHandler{Service: svc}
	h.Register(r)
	return r
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	t.Run("201 with persisted order body", func(t *testing.T) {
		svc := &fakeService{submitResult: orders.Order{
			ID:          "o1",
			ProductList: []orders.Product{{Name: "Widget", Price: 10, Description: "d1"}},
			Username:    "Ann",
			Email:       "a@x.com",
			CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"productList":["p1"],"userId":"u1"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, fulfillment.OrderRequest{UserID: "u1", ProductIDs: []string{"p1"}}, svc.lastReq)

		var got orders.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, "o1", got.ID)
		require.Equal(t, "Ann", got.Username)
	})

	t.Run("400 on invalid json", func(t *testing.T) {
		router := newTestRouter(&fakeService{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on empty product list", func(t *testing.T) {
		svc := &fakeService{submitErr: fulfillment.ErrEmptyProductList}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"productList":[],"userId":"u1"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Product list cannot be empty"}`, rec.Body.String())
	})

	t.Run("400 on unknown user", func(t *testing.T) {
		svc := &fakeService{submitErr: &fulfillment.UserNotFoundError{UserID: "u9"}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"productList":["p1"],"userId":"u9"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":"Error from Order - User not found"}`, rec.Body.String())
	})

	t.Run("400 lists every unresolved product", func(t *testing.T) {
		svc := &fakeService{submitErr: &fulfillment.ProductsNotFoundError{
			Failures: []fulfillment.LookupFailure{{ProductID: "p2"}, {ProductID: "p7"}},
		}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"productList":["p1","p2","p7"],"userId":"u1"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"error":["Product p2 not found","Product p7 not found"]}`, rec.Body.String())
	})

	t.Run("500 on store or publish failure", func(t *testing.T) {
		for name, submitErr := range map[string]error{
			"store":   errors.New("create order: db down"),
			"publish": &fulfillment.PublishError{OrderID: "o1", Err: errors.New("broker down")},
		} {
			t.Run(name, func(t *testing.T) {
				svc := &fakeService{submitErr: submitErr}
				router := newTestRouter(svc)

				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/",
					strings.NewReader(`{"productList":["p1"],"userId":"u1"}`))
				router.ServeHTTP(rec, req)

				require.Equal(t, http.StatusInternalServerError, rec.Code)
				require.JSONEq(t, `{"error":"Failed to create order or send event"}`, rec.Body.String())
			})
		}
	})
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	t.Run("200 with all orders", func(t *testing.T) {
		svc := &fakeService{listResult: []orders.Order{
			{ID: "o1", ProductList: []orders.Product{{Name: "Widget", Price: 10}}},
			{ID: "o2", ProductList: []orders.Product{}},
		}}
		router := newTestRouter(svc)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got []orders.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 2)
	})

	t.Run("200 with empty array when no orders exist", func(t *testing.T) {
		router := newTestRouter(&fakeService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("500 on store failure", func(t *testing.T) {
		router := newTestRouter(&fakeService{listErr: errors.New("db down")})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
