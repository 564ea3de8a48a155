package engine

import (
	"testing"
	"time"

	"restaurant-analytics/internal/models"
	"restaurant-analytics/internal/report"
)

var jst = time.FixedZone("JST", 9*3600)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.May, day, hour, minute, 0, 0, jst)
}

// testStore builds a small two-day restaurant:
// May 16: order 1 (2 people, 12:30) and order 2 (4 people, 19:05)
// May 17: order 3 (1 person, 11:45)
// April 16: order 4 (3 people, 13:10), the previous-month comparison
func testStore() *Store {
	orders := []models.Order{
		{OrderID: 1, CompletedAt: at(16, 12, 30), CustomerID: 10, PartySize: 2},
		{OrderID: 2, CompletedAt: at(16, 19, 5), CustomerID: 11, PartySize: 4},
		{OrderID: 3, CompletedAt: at(17, 11, 45), CustomerID: 12, PartySize: 1},
		{OrderID: 4, CompletedAt: time.Date(2024, time.April, 16, 13, 10, 0, 0, jst), CustomerID: 13, PartySize: 3},
	}
	products := []models.Product{
		{ProductID: 100, Menu: "Lunch", Category: "Main", SubCategory: "Pasta", ProductName: "Tomato Pasta", Price: 1200, Cost: 400, Profit: 800},
		{ProductID: 101, Menu: "Dinner", Category: "Main", SubCategory: "Steak", ProductName: "Sirloin Steak", Price: 3500, Cost: 1500, Profit: 2000},
		{ProductID: 102, Menu: "Drink", Category: "Soft", SubCategory: "Tea", ProductName: "Iced Tea", Price: 400, Cost: 50, Profit: 350},
	}
	items := []models.OrderItem{
		{OrderItemID: 1, OrderID: 1, ProductID: 100, Quantity: 2},
		{OrderItemID: 2, OrderID: 2, ProductID: 101, Quantity: 1},
		{OrderItemID: 3, OrderID: 3, ProductID: 100, Quantity: 1},
		{OrderItemID: 4, OrderID: 4, ProductID: 102, Quantity: 3},
	}
	payments := []models.Payment{
		{PaymentID: 1, OrderID: 1, PaymentMethod: models.Cash, Amount: 2400, PaymentTime: at(16, 12, 31)},
		{PaymentID: 2, OrderID: 2, PaymentMethod: models.PayPay, Amount: 3500, Fee: 100, PaymentTime: at(16, 19, 6)},
		{PaymentID: 3, OrderID: 3, PaymentMethod: models.CreditCardOnsite, Amount: 1200, Fee: 40, PaymentTime: at(17, 11, 46)},
		{PaymentID: 4, OrderID: 4, PaymentMethod: models.Cash, Amount: 1200, PaymentTime: time.Date(2024, time.April, 16, 13, 12, 0, 0, jst)},
	}
	return NewStore(orders, items, products, payments)
}

func TestStorePeriod(t *testing.T) {
	store := testStore()

	day := store.Period(report.New(report.Daily, at(16, 0, 0)))
	if len(day.Orders) != 2 || len(day.Payments) != 2 || len(day.Items) != 2 {
		t.Fatalf("daily period: got %d orders, %d payments, %d items", len(day.Orders), len(day.Payments), len(day.Items))
	}

	month := store.Period(report.New(report.Monthly, at(1, 0, 0)))
	if len(month.Orders) != 3 || len(month.Payments) != 3 || len(month.Items) != 3 {
		t.Fatalf("monthly period: got %d orders, %d payments, %d items", len(month.Orders), len(month.Payments), len(month.Items))
	}

	empty := store.Period(report.New(report.Daily, at(20, 0, 0)))
	if empty.Orders == nil || len(empty.Orders) != 0 {
		t.Errorf("expected empty non-nil orders, got %v", empty.Orders)
	}
}

func TestDashboardDaily(t *testing.T) {
	// 1. Setup
	store := testStore()
	rc := report.New(report.Daily, at(17, 0, 0))

	// 2. Run Aggregation
	data := store.Dashboard(rc, DashboardOptions{
		Scale:       Hour,
		Comparisons: rc.DefaultComparisons(),
		Thresholds:  DefaultThresholds,
		Hours:       DefaultBusinessHours,
		Pad:         true,
		TopN:        2,
	})

	// 3. Assertions

	// A. KPI for May 17
	if data.Mode != "daily" || data.Date != "2024-05-17" {
		t.Errorf("unexpected header %s %s", data.Mode, data.Date)
	}
	if data.KPI.TotalSales != 1200 || data.KPI.NetSales != 1160 || data.KPI.TotalCustomerGroups != 1 {
		t.Errorf("unexpected KPI %+v", data.KPI)
	}

	// B. Comparisons in request order; previous day is May 16 (5900 sales)
	if len(data.Comparisons) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(data.Comparisons))
	}
	prevDay := data.Comparisons[0]
	if prevDay.Against != "previous_day" || prevDay.TotalSales.Diff != -4700 || prevDay.TotalSales.Trend != models.TrendDown {
		t.Errorf("unexpected previous day comparison %+v", prevDay)
	}
	if data.Comparisons[2].Against != "previous_year" || data.Comparisons[2].Previous.TotalSales != 0 {
		t.Errorf("unexpected previous year comparison %+v", data.Comparisons[2])
	}
	if len(data.CustomerSeries) != 3 || data.CustomerSeries[0].Against != "previous_day" {
		t.Errorf("expected one customer series per comparison, got %+v", data.CustomerSeries)
	}

	// C. Padded hourly customers: 15 ticks, 1 group at 11:00
	if len(data.Customers) != 15 {
		t.Fatalf("expected 15 padded buckets, got %d", len(data.Customers))
	}
	if b := data.Customers[1]; b.Label != "11:00" || b.Groups != 1 || b.People != 1 {
		t.Errorf("unexpected 11:00 bucket %+v", b)
	}

	// D. Payments and products
	if len(data.PaymentMethods) != 1 || data.PaymentMethods[0].Method != models.CreditCardOnsite {
		t.Errorf("unexpected payment methods %+v", data.PaymentMethods)
	}
	if len(data.TopProducts) != 2 || data.TopProducts[0].ProductID != 100 {
		t.Errorf("unexpected top products %+v", data.TopProducts)
	}
	if data.ProductTotals.Amount != 1200 || data.ProductTotals.Count != 1 || data.ProductTotals.Profit != 800 {
		t.Errorf("unexpected product totals %+v", data.ProductTotals)
	}
}

func TestDashboardMonthly(t *testing.T) {
	store := testStore()
	rc := report.New(report.Monthly, at(16, 0, 0))

	data := store.Dashboard(rc, DashboardOptions{
		Scale:       HalfHour,
		Comparisons: rc.DefaultComparisons(),
		Thresholds:  DefaultThresholds,
		Hours:       DefaultBusinessHours,
	})

	if data.KPI.TotalSales != 7100 || data.KPI.TotalPartySize != 7 {
		t.Errorf("unexpected monthly KPI %+v", data.KPI)
	}
	// Monthly reports chart per day regardless of the requested scale.
	if len(data.Customers) != 2 || data.Customers[0].Label != "16" || data.Customers[1].Label != "17" {
		t.Errorf("unexpected day buckets %+v", data.Customers)
	}
	if data.Comparisons[0].Against != "previous_month" || data.Comparisons[0].Previous.TotalSales != 1200 {
		t.Errorf("unexpected previous month comparison %+v", data.Comparisons[0])
	}
	if data.Comparisons[0].TotalSales.Diff != 5900 || data.Comparisons[0].TotalSales.Trend != models.TrendUp {
		t.Errorf("unexpected previous month delta %+v", data.Comparisons[0].TotalSales)
	}
	// No TopN means every catalog product, unsold ones included.
	if len(data.TopProducts) != 3 {
		t.Errorf("expected all 3 catalog products, got %d", len(data.TopProducts))
	}
}

func TestCustomerGranularity(t *testing.T) {
	daily := report.New(report.Daily, at(16, 0, 0))
	monthly := report.New(report.Monthly, at(16, 0, 0))

	cases := []struct {
		rc    report.Context
		scale Granularity
		want  Granularity
	}{
		{daily, "", Hour},
		{daily, HalfHour, HalfHour},
		{daily, TwoHours, TwoHours},
		{daily, DayOfMonth, Hour},
		{monthly, HalfHour, DayOfMonth},
	}
	for _, c := range cases {
		if got := CustomerGranularity(c.rc, c.scale); got != c.want {
			t.Errorf("CustomerGranularity(%s, %q) = %q, want %q", c.rc.Mode, c.scale, got, c.want)
		}
	}
	if SalesGranularity(monthly) != DayOfMonth || SalesGranularity(daily) != Hour {
		t.Error("unexpected sales granularity")
	}
}
