package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Create persists an order and its product lines in one transaction.
// The order id is assigned here, not by the caller.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, username, email, phoneno, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.Username, o.Email, o.PhoneNo, o.Location, o.CreatedAt)
	if err != nil {
		return Order{}, err
	}

	for i, p := range o.ProductList {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_products(order_id, position, name, price, description)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, p.Name, p.Price, p.Description,
		)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListAll returns every persisted order with its product list in the
// position it was stored. No pagination.
func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, username, email, phoneno, location, created_at
                                FROM orders ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	index := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Username, &o.Email, &o.PhoneNo, &o.Location, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ProductList = []Product{}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.DB.Query(ctx, `SELECT order_id, name, price, description
                                 FROM order_products ORDER BY order_id, position`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var orderID string
		var p Product
		if err := prows.Scan(&orderID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			out[i].ProductList = append(out[i].ProductList, p)
		}
	}
	return out, prows.Err()
}
