package engine

import (
	"time"

	"restaurant-analytics/internal/models"
)

// dayBounds returns the inclusive [00:00:00.000, 23:59:59.999] window of
// date's calendar day in date's location.
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), date.Location())
	return start, end
}

func inDay(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func sameMonth(t, date time.Time) bool {
	t = t.In(date.Location())
	return t.Year() == date.Year() && t.Month() == date.Month()
}

func FilterOrdersByDay(orders []models.Order, date time.Time) []models.Order {
	start, end := dayBounds(date)
	out := make([]models.Order, 0)
	for _, o := range orders {
		if inDay(o.CompletedAt, start, end) {
			out = append(out, o)
		}
	}
	return out
}

func FilterOrdersByMonth(orders []models.Order, date time.Time) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if sameMonth(o.CompletedAt, date) {
			out = append(out, o)
		}
	}
	return out
}

func FilterPaymentsByDay(payments []models.Payment, date time.Time) []models.Payment {
	start, end := dayBounds(date)
	out := make([]models.Payment, 0)
	for _, p := range payments {
		if inDay(p.PaymentTime, start, end) {
			out = append(out, p)
		}
	}
	return out
}

func FilterPaymentsByMonth(payments []models.Payment, date time.Time) []models.Payment {
	out := make([]models.Payment, 0)
	for _, p := range payments {
		if sameMonth(p.PaymentTime, date) {
			out = append(out, p)
		}
	}
	return out
}

// OrderIDs returns the set of ids in orders.
func OrderIDs(orders []models.Order) map[int]struct{} {
	ids := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		ids[o.OrderID] = struct{}{}
	}
	return ids
}

// FilterOrderItems keeps the items whose order is in ids.
func FilterOrderItems(items []models.OrderItem, ids map[int]struct{}) []models.OrderItem {
	out := make([]models.OrderItem, 0)
	for _, it := range items {
		if _, ok := ids[it.OrderID]; ok {
			out = append(out, it)
		}
	}
	return out
}
