package api

import (
	"restaurant-analytics/internal/engine"
	"restaurant-analytics/internal/models"
)

// Response bodies. Each one is also the cache payload of its route, so all
// fields must survive a JSON round trip.

type KPIResponse struct {
	Mode       string                `json:"mode"`
	Date       string                `json:"date"`
	KPI        models.SalesKPI       `json:"kpi"`
	Comparison *models.KPIComparison `json:"comparison,omitempty"`
}

type CustomersResponse struct {
	Mode    string                  `json:"mode"`
	Date    string                  `json:"date"`
	Scale   engine.Granularity      `json:"scale"`
	Ticks   []string                `json:"ticks"`
	Buckets []models.CustomerBucket `json:"buckets"`
}

type PaymentMethodsResponse struct {
	Mode    string                      `json:"mode"`
	Date    string                      `json:"date"`
	Methods []models.PaymentMethodTotal `json:"methods"`
}

type ProductsResponse struct {
	Mode       string               `json:"mode"`
	Date       string               `json:"date"`
	Data       []models.ABCItem     `json:"data"`
	Total      int                  `json:"total"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
	Totals     models.ProductTotals `json:"totals"`
	Thresholds engine.Thresholds    `json:"thresholds"`
}

type SalesSeriesResponse struct {
	Mode   string              `json:"mode"`
	Date   string              `json:"date"`
	Scale  engine.Granularity  `json:"scale"`
	Points []models.SalesPoint `json:"points"`
}

type SalesTableResponse struct {
	Mode  string            `json:"mode"`
	Date  string            `json:"date"`
	Table models.SalesTable `json:"table"`
}

// NavigationResponse is the report context after a navigation step, with
// the neighbouring dates precomputed.
type NavigationResponse struct {
	Mode      string `json:"mode"`
	Date      string `json:"date"`
	LastDaily string `json:"last_daily"`
	Prev      string `json:"prev"`
	Next      string `json:"next"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version,omitempty"`
}
