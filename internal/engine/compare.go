package engine

import (
	"math"

	"restaurant-analytics/internal/models"
)

func delta(current, previous float64) models.Delta {
	diff := math.Round(current - previous)
	switch {
	case diff > 0:
		return models.Delta{Diff: diff, Trend: models.TrendUp}
	case diff < 0:
		return models.Delta{Diff: diff, Trend: models.TrendDown}
	default:
		return models.Delta{Diff: 0, Trend: models.TrendNeutral}
	}
}

// CompareKPI reports current minus previous, rounded to whole units.
func CompareKPI(current, previous models.SalesKPI, against string) models.KPIComparison {
	return models.KPIComparison{
		Against:            against,
		Previous:           previous,
		TotalSales:         delta(current.TotalSales, previous.TotalSales),
		NetSales:           delta(current.NetSales, previous.NetSales),
		TotalCustomers:     delta(float64(current.TotalCustomerGroups), float64(previous.TotalCustomerGroups)),
		AveragePerCustomer: delta(current.AveragePerCustomer, previous.AveragePerCustomer),
	}
}
