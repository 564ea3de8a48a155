package engine

import (
	"sync"

	"restaurant-analytics/internal/models"
	"restaurant-analytics/internal/report"
)

// Period is the slice of the store a report context looks at.
type Period struct {
	Orders   []models.Order
	Payments []models.Payment
	Items    []models.OrderItem
}

// Period filters orders and payments to rc's day or month, then keeps the
// items that belong to the filtered orders.
func (s *Store) Period(rc report.Context) Period {
	var p Period
	if rc.Mode == report.Monthly {
		p.Orders = FilterOrdersByMonth(s.Orders, rc.Anchor)
		p.Payments = FilterPaymentsByMonth(s.Payments, rc.Anchor)
	} else {
		p.Orders = FilterOrdersByDay(s.Orders, rc.Anchor)
		p.Payments = FilterPaymentsByDay(s.Payments, rc.Anchor)
	}
	p.Items = FilterOrderItems(s.OrderItems, OrderIDs(p.Orders))
	return p
}

// CustomerGranularity is the bucket size a context charts customers in:
// the requested intra-day scale for daily reports, days for monthly ones.
func CustomerGranularity(rc report.Context, scale Granularity) Granularity {
	if rc.Mode == report.Monthly {
		return DayOfMonth
	}
	if scale == DayOfMonth || scale == "" {
		return Hour
	}
	return scale
}

// SalesGranularity is hourly for daily reports and per day for monthly.
func SalesGranularity(rc report.Context) Granularity {
	if rc.Mode == report.Monthly {
		return DayOfMonth
	}
	return Hour
}

func (s *Store) RankProducts(p Period, t Thresholds) []models.ABCItem {
	return ClassifyABC(RollupProducts(p.Items, s.Products, true), t)
}

type DashboardOptions struct {
	Scale       Granularity
	Comparisons []report.Comparison
	Thresholds  Thresholds
	Hours       BusinessHours
	Pad         bool
	TopN        int
}

type comparisonResult struct {
	kpi     models.KPIComparison
	buckets models.CustomerSeries
}

// Dashboard assembles every widget of the sales overview page. Comparison
// periods are independent, so each runs in its own goroutine and the
// results are merged in request order.
func (s *Store) Dashboard(rc report.Context, opts DashboardOptions) *models.Dashboard {
	g := CustomerGranularity(rc, opts.Scale)
	cur := s.Period(rc)
	kpi := CalculateKPI(cur.Orders, cur.Payments)

	buckets := func(orders []models.Order) []models.CustomerBucket {
		b := BucketCustomers(orders, g)
		if opts.Pad {
			b = PadBuckets(b, g, opts.Hours)
		}
		return b
	}

	results := make([]comparisonResult, len(opts.Comparisons))
	var wg sync.WaitGroup
	for i, cmp := range opts.Comparisons {
		prevCtx, ok := rc.Compare(cmp)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, prevCtx report.Context, label string) {
			defer wg.Done()
			prev := s.Period(prevCtx)
			results[i] = comparisonResult{
				kpi:     CompareKPI(kpi, CalculateKPI(prev.Orders, prev.Payments), label),
				buckets: models.CustomerSeries{Against: label, Buckets: buckets(prev.Orders)},
			}
		}(i, prevCtx, rc.Label(cmp))
	}
	wg.Wait()

	products := s.RankProducts(cur, opts.Thresholds)
	data := &models.Dashboard{
		Mode:           string(rc.Mode),
		Date:           rc.Date(),
		Prev:           rc.Prev().Date(),
		Next:           rc.Next().Date(),
		KPI:            kpi,
		Comparisons:    make([]models.KPIComparison, 0, len(results)),
		Customers:      buckets(cur.Orders),
		PaymentMethods: AggregateByMethod(cur.Payments),
		TopProducts:    TopN(products, MetricAmount, opts.TopN),
		ProductTotals:  ProductTotals(RollupProducts(cur.Items, s.Products, false)),
	}
	for _, r := range results {
		if r.kpi.Against == "" {
			continue
		}
		data.Comparisons = append(data.Comparisons, r.kpi)
		data.CustomerSeries = append(data.CustomerSeries, r.buckets)
	}
	return data
}
