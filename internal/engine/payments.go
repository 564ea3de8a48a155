package engine

import "restaurant-analytics/internal/models"

// AggregateByMethod sums payment amounts (fees excluded) per method. Only
// methods present in payments are returned, in declaration order.
func AggregateByMethod(payments []models.Payment) []models.PaymentMethodTotal {
	sums := make(map[models.PaymentMethod]float64)
	for _, p := range payments {
		sums[p.PaymentMethod] += p.Amount
	}

	out := make([]models.PaymentMethodTotal, 0, len(sums))
	for _, m := range models.PaymentMethods {
		total, ok := sums[m]
		if !ok {
			continue
		}
		out = append(out, models.PaymentMethodTotal{
			Method:      m,
			Name:        m.Label(),
			TotalAmount: total,
		})
	}
	return out
}
