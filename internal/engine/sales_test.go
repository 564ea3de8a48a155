package engine

import (
	"testing"

	"restaurant-analytics/internal/report"
)

func TestSalesSeries(t *testing.T) {
	// 1. Setup
	store := testStore()
	p := store.Period(report.New(report.Daily, at(16, 0, 0)))

	// 2. Run
	points := SalesSeries(p.Orders, p.Payments, p.Items, store.Products, Hour)

	// 3. Assertions
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %+v", points)
	}
	lunch, dinner := points[0], points[1]
	if lunch.Label != "12:00" || lunch.TotalSales != 2400 || lunch.Profit != 1600 || lunch.AveragePerCustomer != 1200 {
		t.Errorf("unexpected lunch point %+v", lunch)
	}
	if dinner.Label != "19:00" || dinner.NetSales != 3400 || dinner.Fees != 100 || dinner.AveragePerCustomer != 875 {
		t.Errorf("unexpected dinner point %+v", dinner)
	}

	// Sales per bucket add up to the period KPI.
	kpi := CalculateKPI(p.Orders, p.Payments)
	if lunch.TotalSales+dinner.TotalSales != kpi.TotalSales {
		t.Errorf("series total %v != KPI total %v", lunch.TotalSales+dinner.TotalSales, kpi.TotalSales)
	}
}

func TestSalesSeriesMonthly(t *testing.T) {
	store := testStore()
	p := store.Period(report.New(report.Monthly, at(1, 0, 0)))

	points := SalesSeries(p.Orders, p.Payments, p.Items, store.Products, DayOfMonth)

	if len(points) != 2 || points[0].Label != "16" || points[1].Label != "17" {
		t.Fatalf("unexpected points %+v", points)
	}
	if points[0].TotalSales != 5900 || points[1].TotalSales != 1200 {
		t.Errorf("unexpected day totals %v / %v", points[0].TotalSales, points[1].TotalSales)
	}
}

func TestDetailTable(t *testing.T) {
	store := testStore()
	p := store.Period(report.New(report.Daily, at(16, 0, 0)))

	table := DetailTable(SalesSeries(p.Orders, p.Payments, p.Items, store.Products, Hour))

	if len(table.Periods) != 2 || table.Periods[0] != "12:00" || table.Periods[1] != "19:00" {
		t.Errorf("unexpected periods %v", table.Periods)
	}
	if table.TotalSales[1] != 3500 || table.Profit[1] != 2000 {
		t.Errorf("unexpected dinner columns %v %v", table.TotalSales, table.Profit)
	}

	empty := DetailTable(nil)
	if empty.Periods == nil || len(empty.Periods) != 0 {
		t.Errorf("expected empty non-nil columns, got %+v", empty)
	}
}
