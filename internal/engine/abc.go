package engine

import (
	"fmt"
	"math"
	"sort"

	"restaurant-analytics/internal/models"
)

type Metric string

const (
	MetricAmount Metric = "amount"
	MetricCount  Metric = "count"
	MetricProfit Metric = "profit"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case "":
		return MetricAmount, nil
	case MetricAmount, MetricCount, MetricProfit:
		return m, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

func (m Metric) value(ps models.ProductSales) float64 {
	switch m {
	case MetricCount:
		return float64(ps.Count)
	case MetricProfit:
		return ps.Profit
	default:
		return ps.Amount
	}
}

// Thresholds are cumulative percentages: rank A while the running share is
// <= A, B while <= B, C after.
type Thresholds struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

var DefaultThresholds = Thresholds{A: 70, B: 90}

func (t Thresholds) Validate() error {
	for _, v := range []float64{t.A, t.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid ABC thresholds a=%v b=%v: need finite numbers", t.A, t.B)
		}
	}
	if t.A < 0 || t.B > 100 || t.A > t.B {
		return fmt.Errorf("invalid ABC thresholds a=%v b=%v: need 0 <= a <= b <= 100", t.A, t.B)
	}
	return nil
}

func (t Thresholds) rank(cumulative float64) models.Rank {
	switch {
	case cumulative <= t.A:
		return models.RankA
	case cumulative <= t.B:
		return models.RankB
	default:
		return models.RankC
	}
}

type ranked struct {
	rank       models.Rank
	cumulative float64
}

// rankBy classifies items by one metric. The result is indexed like items.
// A metric total <= 0 gives every item a zero share, hence rank A.
func rankBy(items []models.ProductSales, metric Metric, t Thresholds) []ranked {
	order := make([]int, len(items))
	var total float64
	for i, ps := range items {
		order[i] = i
		total += metric.value(ps)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return metric.value(items[order[a]]) > metric.value(items[order[b]])
	})

	out := make([]ranked, len(items))
	var cumulative float64
	for _, i := range order {
		if total > 0 {
			cumulative += metric.value(items[i]) * 100 / total
		}
		out[i] = ranked{rank: t.rank(cumulative), cumulative: cumulative}
	}
	return out
}

// ClassifyABC ranks each product independently by amount, count and profit.
// Output keeps the input order.
func ClassifyABC(items []models.ProductSales, t Thresholds) []models.ABCItem {
	byAmount := rankBy(items, MetricAmount, t)
	byCount := rankBy(items, MetricCount, t)
	byProfit := rankBy(items, MetricProfit, t)

	out := make([]models.ABCItem, len(items))
	for i, ps := range items {
		out[i] = models.ABCItem{
			ProductSales:     ps,
			AmountRank:       byAmount[i].rank,
			CountRank:        byCount[i].rank,
			ProfitRank:       byProfit[i].rank,
			AmountCumulative: byAmount[i].cumulative,
			CountCumulative:  byCount[i].cumulative,
			ProfitCumulative: byProfit[i].cumulative,
		}
	}
	return out
}
