package engine

import "restaurant-analytics/internal/models"

// CalculateKPI sums an already period-matched set of orders and payments.
// AveragePerCustomer divides by people (party size), not by orders.
func CalculateKPI(orders []models.Order, payments []models.Payment) models.SalesKPI {
	var kpi models.SalesKPI

	for _, p := range payments {
		kpi.TotalSales += p.Amount
		kpi.TotalFees += p.Fee
		switch p.PaymentMethod.Channel() {
		case models.ChannelOnsite:
			kpi.OnsitePayments += p.Amount
		case models.ChannelOnline:
			kpi.OnlinePayments += p.Amount
		}
	}
	kpi.NetSales = kpi.TotalSales - kpi.TotalFees

	kpi.TotalCustomerGroups = len(orders)
	for _, o := range orders {
		kpi.TotalPartySize += o.PartySize
	}
	kpi.AveragePerCustomer = ratio(kpi.TotalSales, float64(kpi.TotalPartySize))

	return kpi
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
