package engine

import (
	"strconv"
	"time"

	"restaurant-analytics/internal/models"
)

// Store holds the loaded collections. It is built once and never mutated,
// so every aggregation over it is safe to run concurrently.
type Store struct {
	Orders     []models.Order
	OrderItems []models.OrderItem
	Products   []models.Product
	Payments   []models.Payment

	// Version changes on every load; caches key on it.
	Version string

	productIdx map[int]int
}

func NewStore(orders []models.Order, items []models.OrderItem, products []models.Product, payments []models.Payment) *Store {
	s := &Store{
		Orders:     orders,
		OrderItems: items,
		Products:   products,
		Payments:   payments,
		Version:    strconv.FormatInt(time.Now().UnixNano(), 36),
		productIdx: indexProducts(products),
	}
	return s
}

// Product looks a catalog entry up by id.
func (s *Store) Product(id int) (models.Product, bool) {
	i, ok := s.productIdx[id]
	if !ok {
		return models.Product{}, false
	}
	return s.Products[i], true
}

func indexProducts(products []models.Product) map[int]int {
	idx := make(map[int]int, len(products))
	for i, p := range products {
		idx[p.ProductID] = i
	}
	return idx
}

// DanglingRefs counts records whose references do not resolve. Aggregates
// skip them; the loader only reports the counts.
type DanglingRefs struct {
	ItemOrders    int `json:"item_orders"`
	ItemProducts  int `json:"item_products"`
	PaymentOrders int `json:"payment_orders"`
}

func (s *Store) Dangling() DanglingRefs {
	var d DanglingRefs
	orders := OrderIDs(s.Orders)
	for _, it := range s.OrderItems {
		if _, ok := orders[it.OrderID]; !ok {
			d.ItemOrders++
		}
		if _, ok := s.Product(it.ProductID); !ok {
			d.ItemProducts++
		}
	}
	for _, p := range s.Payments {
		if _, ok := orders[p.OrderID]; !ok {
			d.PaymentOrders++
		}
	}
	return d
}
