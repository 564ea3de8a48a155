package engine

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"restaurant-analytics/internal/models"
)

const (
	OrdersFile     = "orders.csv"
	OrderItemsFile = "order_items.csv"
	ProductsFile   = "products.csv"
	PaymentsFile   = "payments.csv"
)

// --- 1. FAST PARSERS ---

// fastInt parses "123" or "-123". ok is false on any other byte.
func fastInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := s[0] == '-'
	if neg {
		s = s[1:]
		if s == "" {
			return 0, false
		}
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// fastFloat parses "123", "123.45" or "-0.5".
func fastFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}
	var num float64
	i := 0
	digits := 0
	for i < len(s) && s[i] != '.' {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		num = num*10 + float64(s[i]-'0')
		i++
		digits++
	}
	if i < len(s) {
		i++
		div := 10.0
		for i < len(s) {
			if s[i] < '0' || s[i] > '9' {
				return 0, false
			}
			num += float64(s[i]-'0') / div
			div *= 10
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		num = -num
	}
	return num, true
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// parseTimestamp reads export timestamps. Values without an offset are in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// --- 2. TYPED HEADER ---

// columns maps a header name to its index. Export headers carry type hints
// ("orderId:int", "paymentMethod:enum(PaymentMethod)"); only the name counts.
type columns map[string]int

func parseHeader(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if name, _, found := strings.Cut(h, ":"); found {
			h = name
		}
		cols[h] = i
	}
	return cols
}

func (c columns) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := c[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// row reads typed fields of one record and keeps the first failure.
type row struct {
	cols columns
	rec  []string
	loc  *time.Location
	err  error
}

func (r *row) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) fail(name, v string) {
	if r.err == nil {
		r.err = fmt.Errorf("column %s: bad value %q", name, v)
	}
}

func (r *row) int(name string) int {
	v := r.str(name)
	n, ok := fastInt(v)
	if !ok {
		r.fail(name, v)
	}
	return n
}

func (r *row) float(name string) float64 {
	v := r.str(name)
	f, ok := fastFloat(v)
	if !ok {
		r.fail(name, v)
	}
	return f
}

func (r *row) time(name string) time.Time {
	v := r.str(name)
	t, ok := parseTimestamp(v, r.loc)
	if !ok {
		r.fail(name, v)
	}
	return t
}

func (r *row) method(name string) models.PaymentMethod {
	v := r.str(name)
	m, err := models.ParsePaymentMethod(v)
	if err != nil {
		r.fail(name, v)
	}
	return m
}

// readCSV streams path record by record into fn.
func readCSV(path string, loc *time.Location, required []string, fn func(r *row)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty file", path)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	cols := parseHeader(header)
	if err := cols.require(required...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		r := &row{cols: cols, rec: rec, loc: loc}
		fn(r)
		if r.err != nil {
			line, _ := cr.FieldPos(0)
			return fmt.Errorf("%s line %d: %w", path, line, r.err)
		}
	}
}

// --- 3. COLLECTION LOADERS ---

func LoadOrders(path string, loc *time.Location) ([]models.Order, error) {
	var out []models.Order
	err := readCSV(path, loc, []string{"orderId", "completedAt", "customerId", "partySize"}, func(r *row) {
		out = append(out, models.Order{
			OrderID:     r.int("orderId"),
			CompletedAt: r.time("completedAt"),
			CustomerID:  r.int("customerId"),
			PartySize:   r.int("partySize"),
		})
	})
	return out, err
}

func LoadOrderItems(path string) ([]models.OrderItem, error) {
	var out []models.OrderItem
	err := readCSV(path, time.UTC, []string{"orderItemId", "orderId", "productId", "quantity"}, func(r *row) {
		out = append(out, models.OrderItem{
			OrderItemID: r.int("orderItemId"),
			OrderID:     r.int("orderId"),
			ProductID:   r.int("productId"),
			Quantity:    r.int("quantity"),
		})
	})
	return out, err
}

// LoadProducts reads the catalog. A missing profit column is derived as
// price - cost.
func LoadProducts(path string) ([]models.Product, error) {
	var out []models.Product
	err := readCSV(path, time.UTC, []string{"productId", "productName", "price", "cost"}, func(r *row) {
		p := models.Product{
			ProductID:   r.int("productId"),
			Menu:        r.str("menu"),
			Category:    r.str("category"),
			SubCategory: r.str("subCategory"),
			ProductName: r.str("productName"),
			Price:       r.float("price"),
			Cost:        r.float("cost"),
		}
		if _, ok := r.cols["profit"]; ok {
			p.Profit = r.float("profit")
		} else {
			p.Profit = p.Price - p.Cost
		}
		out = append(out, p)
	})
	return out, err
}

func LoadPayments(path string, loc *time.Location) ([]models.Payment, error) {
	var out []models.Payment
	err := readCSV(path, loc, []string{"paymentId", "orderId", "paymentMethod", "amount", "fee", "paymentTime"}, func(r *row) {
		out = append(out, models.Payment{
			PaymentID:     r.int("paymentId"),
			OrderID:       r.int("orderId"),
			PaymentMethod: r.method("paymentMethod"),
			Amount:        r.float("amount"),
			Fee:           r.float("fee"),
			PaymentTime:   r.time("paymentTime"),
		})
	})
	return out, err
}

// --- 4. MAIN LOADER ---

// LoadCSV reads the four exports in dir concurrently and builds a Store.
func LoadCSV(ctx context.Context, dir string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.Local
	}

	var (
		orders   []models.Order
		items    []models.OrderItem
		products []models.Product
		payments []models.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	load(func() (err error) {
		orders, err = LoadOrders(filepath.Join(dir, OrdersFile), loc)
		return err
	})
	load(func() (err error) {
		items, err = LoadOrderItems(filepath.Join(dir, OrderItemsFile))
		return err
	})
	load(func() (err error) {
		products, err = LoadProducts(filepath.Join(dir, ProductsFile))
		return err
	})
	load(func() (err error) {
		payments, err = LoadPayments(filepath.Join(dir, PaymentsFile), loc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load csv from %s: %w", dir, err)
	}

	return NewStore(orders, items, products, payments), nil
}
