package engine

import (
	"sort"
	"strings"

	"restaurant-analytics/internal/models"
)

// RollupProducts sums revenue, quantity and profit per product over items.
// Items whose product is not in the catalog are skipped. With seedCatalog
// every catalog product is present, unsold ones at zero. Output is ordered
// by product id.
func RollupProducts(items []models.OrderItem, catalog []models.Product, seedCatalog bool) []models.ProductSales {
	byID := make(map[int]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ProductID] = p
	}

	acc := make(map[int]*models.ProductSales)
	get := func(p models.Product) *models.ProductSales {
		ps, ok := acc[p.ProductID]
		if !ok {
			ps = &models.ProductSales{
				ProductID:   p.ProductID,
				Name:        p.ProductName,
				Menu:        p.Menu,
				Category:    p.Category,
				SubCategory: p.SubCategory,
			}
			acc[p.ProductID] = ps
		}
		return ps
	}

	if seedCatalog {
		for _, p := range catalog {
			get(p)
		}
	}
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		ps := get(p)
		ps.Amount += p.Price * float64(it.Quantity)
		ps.Count += it.Quantity
	}

	out := make([]models.ProductSales, 0, len(acc))
	for id, ps := range acc {
		ps.Profit = byID[id].Profit * float64(ps.Count)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func addTotals(t *models.ProductTotals, ps models.ProductSales) {
	t.Amount += ps.Amount
	t.Count += ps.Count
	t.Profit += ps.Profit
}

func ProductTotals(items []models.ProductSales) models.ProductTotals {
	var t models.ProductTotals
	for _, ps := range items {
		addTotals(&t, ps)
	}
	return t
}

// ABCTotals sums the rollups behind ranked items.
func ABCTotals(items []models.ABCItem) models.ProductTotals {
	var t models.ProductTotals
	for _, it := range items {
		addTotals(&t, it.ProductSales)
	}
	return t
}

// ProductFilter narrows a product list. Empty fields match everything;
// Query is a case-insensitive substring of the product name.
type ProductFilter struct {
	Menu        string
	Category    string
	SubCategory string
	Query       string
}

func (f ProductFilter) match(ps models.ProductSales) bool {
	if f.Menu != "" && ps.Menu != f.Menu {
		return false
	}
	if f.Category != "" && ps.Category != f.Category {
		return false
	}
	if f.SubCategory != "" && ps.SubCategory != f.SubCategory {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(ps.Name), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func FilterABC(items []models.ABCItem, f ProductFilter) []models.ABCItem {
	out := make([]models.ABCItem, 0, len(items))
	for _, it := range items {
		if f.match(it.ProductSales) {
			out = append(out, it)
		}
	}
	return out
}

// SortABC orders items descending by metric. Ties keep their input order.
func SortABC(items []models.ABCItem, metric Metric) []models.ABCItem {
	out := make([]models.ABCItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return metric.value(out[i].ProductSales) > metric.value(out[j].ProductSales)
	})
	return out
}

// TopN returns the n best items by metric. n <= 0 returns all of them.
func TopN(items []models.ABCItem, metric Metric, n int) []models.ABCItem {
	sorted := SortABC(items, metric)
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
