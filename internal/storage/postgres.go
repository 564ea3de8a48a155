// Package storage loads the sales collections from PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/gommon/log"

	"restaurant-analytics/internal/config"
	"restaurant-analytics/internal/engine"
	"restaurant-analytics/internal/models"
)

const (
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// Connect opens the database and pings it until it answers, up to
// cfg.Retries attempts.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}

	var db *sql.DB
	var err error
	for i := 1; i <= attempts; i++ {
		db, err = sql.Open("pgx", cfg.DSN())
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = db.PingContext(pctx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		log.Warnf("postgres: attempt %d/%d failed: %v", i, attempts, err)

		if i == attempts {
			break
		}
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

const (
	ordersQuery     = `SELECT order_id, completed_at, customer_id, party_size FROM orders ORDER BY order_id`
	orderItemsQuery = `SELECT order_item_id, order_id, product_id, quantity FROM order_items ORDER BY order_item_id`
	productsQuery   = `SELECT product_id, menu, category, sub_category, product_name, price, cost, profit FROM products ORDER BY product_id`
	paymentsQuery   = `SELECT payment_id, order_id, payment_method, amount, fee, payment_time FROM payments ORDER BY payment_id`
)

// Load reads all four tables and builds a Store. Timestamps are converted
// to loc.
func Load(ctx context.Context, db *sql.DB, loc *time.Location) (*engine.Store, error) {
	if loc == nil {
		loc = time.Local
	}

	orders, err := queryAll(ctx, db, ordersQuery, func(rows *sql.Rows) (models.Order, error) {
		var o models.Order
		err := rows.Scan(&o.OrderID, &o.CompletedAt, &o.CustomerID, &o.PartySize)
		o.CompletedAt = o.CompletedAt.In(loc)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	items, err := queryAll(ctx, db, orderItemsQuery, func(rows *sql.Rows) (models.OrderItem, error) {
		var it models.OrderItem
		err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.Quantity)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	products, err := queryAll(ctx, db, productsQuery, func(rows *sql.Rows) (models.Product, error) {
		var p models.Product
		err := rows.Scan(&p.ProductID, &p.Menu, &p.Category, &p.SubCategory, &p.ProductName, &p.Price, &p.Cost, &p.Profit)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	payments, err := queryAll(ctx, db, paymentsQuery, func(rows *sql.Rows) (models.Payment, error) {
		var p models.Payment
		var method string
		if err := rows.Scan(&p.PaymentID, &p.OrderID, &method, &p.Amount, &p.Fee, &p.PaymentTime); err != nil {
			return p, err
		}
		m, err := models.ParsePaymentMethod(method)
		if err != nil {
			return p, fmt.Errorf("payment %d: %w", p.PaymentID, err)
		}
		p.PaymentMethod = m
		p.PaymentTime = p.PaymentTime.In(loc)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	return engine.NewStore(orders, items, products, payments), nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
