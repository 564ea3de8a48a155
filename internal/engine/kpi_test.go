package engine

import (
	"testing"
	"time"

	"restaurant-analytics/internal/models"
)

func TestCalculateKPI(t *testing.T) {
	// 1. Setup
	// One party of two paying 3000 in cash with a 90 fee on the card leg.
	orders := []models.Order{{OrderID: 1, PartySize: 2}}
	payments := []models.Payment{
		{PaymentID: 1, OrderID: 1, PaymentMethod: models.Cash, Amount: 2000},
		{PaymentID: 2, OrderID: 1, PaymentMethod: models.CreditCardOnsite, Amount: 1000, Fee: 90},
	}

	// 2. Run
	kpi := CalculateKPI(orders, payments)

	// 3. Assertions
	want := models.SalesKPI{
		TotalSales:          3000,
		TotalFees:           90,
		NetSales:            2910,
		TotalCustomerGroups: 1,
		TotalPartySize:      2,
		AveragePerCustomer:  1500,
		OnsitePayments:      3000,
		OnlinePayments:      0,
	}
	if kpi != want {
		t.Errorf("CalculateKPI = %+v, want %+v", kpi, want)
	}
}

func TestCalculateKPIChannels(t *testing.T) {
	payments := []models.Payment{
		{PaymentMethod: models.QRCodeOnsite, Amount: 100},
		{PaymentMethod: models.CreditCardOnline, Amount: 200},
		{PaymentMethod: models.LinePay, Amount: 300},
		{PaymentMethod: models.RakutenPay, Amount: 400},
		{PaymentMethod: models.PaymentMethodUnknown, Amount: 50},
	}

	kpi := CalculateKPI(nil, payments)

	if kpi.OnsitePayments != 100 || kpi.OnlinePayments != 900 {
		t.Errorf("unexpected channel split onsite=%v online=%v", kpi.OnsitePayments, kpi.OnlinePayments)
	}
	// Unknown methods still count as sales.
	if kpi.TotalSales != 1050 {
		t.Errorf("expected total 1050, got %v", kpi.TotalSales)
	}
	if kpi.OnsitePayments+kpi.OnlinePayments > kpi.TotalSales {
		t.Error("channel sums exceed total sales")
	}
}

func TestCalculateKPIEmpty(t *testing.T) {
	kpi := CalculateKPI(nil, nil)
	if kpi != (models.SalesKPI{}) {
		t.Errorf("expected zero KPI, got %+v", kpi)
	}

	// Orders with no payments keep the average at zero instead of NaN.
	kpi = CalculateKPI([]models.Order{{OrderID: 1, PartySize: 0, CompletedAt: time.Now()}}, nil)
	if kpi.AveragePerCustomer != 0 || kpi.TotalCustomerGroups != 1 {
		t.Errorf("unexpected KPI %+v", kpi)
	}
}

func TestCompareKPI(t *testing.T) {
	cur := models.SalesKPI{TotalSales: 1000.4, NetSales: 900, TotalCustomerGroups: 3, AveragePerCustomer: 250}
	prev := models.SalesKPI{TotalSales: 1000, NetSales: 950, TotalCustomerGroups: 1, AveragePerCustomer: 250}

	cmp := CompareKPI(cur, prev, "previous_day")

	if cmp.Against != "previous_day" || cmp.Previous != prev {
		t.Errorf("unexpected comparison header %+v", cmp)
	}
	if cmp.TotalSales != (models.Delta{Diff: 0, Trend: models.TrendNeutral}) {
		t.Errorf("rounded zero diff should be neutral, got %+v", cmp.TotalSales)
	}
	if cmp.NetSales != (models.Delta{Diff: -50, Trend: models.TrendDown}) {
		t.Errorf("unexpected net sales delta %+v", cmp.NetSales)
	}
	if cmp.TotalCustomers != (models.Delta{Diff: 2, Trend: models.TrendUp}) {
		t.Errorf("unexpected customers delta %+v", cmp.TotalCustomers)
	}
}
