package engine

import (
	"sort"

	"restaurant-analytics/internal/models"
)

type salesAcc struct {
	sales  float64
	fees   float64
	people int
	profit float64
}

// SalesSeries buckets orders by g and attaches each order's payments and
// item profit to its bucket. Payments or items pointing at orders outside
// the set, or at unknown products, are skipped.
func SalesSeries(orders []models.Order, payments []models.Payment, items []models.OrderItem, catalog []models.Product, g Granularity) []models.SalesPoint {
	paymentsByOrder := make(map[int][]models.Payment)
	for _, p := range payments {
		paymentsByOrder[p.OrderID] = append(paymentsByOrder[p.OrderID], p)
	}
	itemsByOrder := make(map[int][]models.OrderItem)
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}
	unitProfit := make(map[int]float64, len(catalog))
	for _, p := range catalog {
		unitProfit[p.ProductID] = p.Profit
	}

	acc := make(map[int]*salesAcc)
	for _, o := range orders {
		s := g.slot(o.CompletedAt)
		a, ok := acc[s]
		if !ok {
			a = &salesAcc{}
			acc[s] = a
		}
		a.people += o.PartySize
		for _, p := range paymentsByOrder[o.OrderID] {
			a.sales += p.Amount
			a.fees += p.Fee
		}
		for _, it := range itemsByOrder[o.OrderID] {
			if profit, ok := unitProfit[it.ProductID]; ok {
				a.profit += profit * float64(it.Quantity)
			}
		}
	}

	out := make([]models.SalesPoint, 0, len(acc))
	for s, a := range acc {
		out = append(out, models.SalesPoint{
			Label:              g.label(s),
			Slot:               s,
			TotalSales:         a.sales,
			NetSales:           a.sales - a.fees,
			Fees:               a.fees,
			Profit:             a.profit,
			AveragePerCustomer: ratio(a.sales, float64(a.people)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// DetailTable turns a series into columns for the detail table.
func DetailTable(points []models.SalesPoint) models.SalesTable {
	t := models.SalesTable{
		Periods:            make([]string, len(points)),
		TotalSales:         make([]float64, len(points)),
		NetSales:           make([]float64, len(points)),
		Fees:               make([]float64, len(points)),
		Profit:             make([]float64, len(points)),
		AveragePerCustomer: make([]float64, len(points)),
	}
	for i, p := range points {
		t.Periods[i] = p.Label
		t.TotalSales[i] = p.TotalSales
		t.NetSales[i] = p.NetSales
		t.Fees[i] = p.Fees
		t.Profit[i] = p.Profit
		t.AveragePerCustomer[i] = p.AveragePerCustomer
	}
	return t
}
