package models

import "time"

// Order is one dining transaction (a party at a table).
type Order struct {
	OrderID     int       `json:"order_id"`
	CompletedAt time.Time `json:"completed_at"`
	CustomerID  int       `json:"customer_id"`
	PartySize   int       `json:"party_size"`
}

type OrderItem struct {
	OrderItemID int `json:"order_item_id"`
	OrderID     int `json:"order_id"`
	ProductID   int `json:"product_id"`
	Quantity    int `json:"quantity"`
}

// Product is a catalog entry. Profit is per unit (Price - Cost).
type Product struct {
	ProductID   int     `json:"product_id"`
	Menu        string  `json:"menu"`
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Profit      float64 `json:"profit"`
}

type Payment struct {
	PaymentID     int           `json:"payment_id"`
	OrderID       int           `json:"order_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Amount        float64       `json:"amount"`
	Fee           float64       `json:"fee"`
	PaymentTime   time.Time     `json:"payment_time"`
}

type SalesKPI struct {
	TotalSales          float64 `json:"total_sales"`
	TotalFees           float64 `json:"total_fees"`
	NetSales            float64 `json:"net_sales"`
	TotalCustomerGroups int     `json:"total_customer_groups"`
	TotalPartySize      int     `json:"total_party_size"`
	AveragePerCustomer  float64 `json:"average_per_customer"`
	OnsitePayments      float64 `json:"onsite_payments"`
	OnlinePayments      float64 `json:"online_payments"`
}

// CustomerBucket counts parties (Groups) and people in one time bucket.
type CustomerBucket struct {
	Label  string `json:"label"`
	Slot   int    `json:"slot"`
	Groups int    `json:"groups"`
	People int    `json:"people"`
}

type PaymentMethodTotal struct {
	Method      PaymentMethod `json:"method"`
	Name        string        `json:"name"`
	TotalAmount float64       `json:"total_amount"`
}

type ProductSales struct {
	ProductID   int     `json:"product_id"`
	Name        string  `json:"name"`
	Menu        string  `json:"menu"`
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	Amount      float64 `json:"amount"`
	Count       int     `json:"count"`
	Profit      float64 `json:"profit"`
}

type Rank string

const (
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
)

// ABCItem is a product rollup with one rank per metric. The cumulative
// fields hold the running percentage at which the product was ranked.
type ABCItem struct {
	ProductSales
	AmountRank       Rank    `json:"amount_rank"`
	CountRank        Rank    `json:"count_rank"`
	ProfitRank       Rank    `json:"profit_rank"`
	AmountCumulative float64 `json:"amount_cumulative"`
	CountCumulative  float64 `json:"count_cumulative"`
	ProfitCumulative float64 `json:"profit_cumulative"`
}

type ProductTotals struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
	Profit float64 `json:"profit"`
}

type SalesPoint struct {
	Label              string  `json:"label"`
	Slot               int     `json:"slot"`
	TotalSales         float64 `json:"total_sales"`
	NetSales           float64 `json:"net_sales"`
	Fees               float64 `json:"fees"`
	Profit             float64 `json:"profit"`
	AveragePerCustomer float64 `json:"average_per_customer"`
}

// SalesTable is the column-oriented form of a sales series.
type SalesTable struct {
	Periods            []string  `json:"periods"`
	TotalSales         []float64 `json:"total_sales"`
	NetSales           []float64 `json:"net_sales"`
	Fees               []float64 `json:"fees"`
	Profit             []float64 `json:"profit"`
	AveragePerCustomer []float64 `json:"average_per_customer"`
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

type Delta struct {
	Diff  float64 `json:"diff"`
	Trend Trend   `json:"trend"`
}

type KPIComparison struct {
	Against            string   `json:"against"`
	Previous           SalesKPI `json:"previous"`
	TotalSales         Delta    `json:"total_sales"`
	NetSales           Delta    `json:"net_sales"`
	TotalCustomers     Delta    `json:"total_customers"`
	AveragePerCustomer Delta    `json:"average_per_customer"`
}

type CustomerSeries struct {
	Against string           `json:"against"`
	Buckets []CustomerBucket `json:"buckets"`
}

type Dashboard struct {
	Mode           string               `json:"mode"`
	Date           string               `json:"date"`
	Prev           string               `json:"prev"`
	Next           string               `json:"next"`
	KPI            SalesKPI             `json:"kpi"`
	Comparisons    []KPIComparison      `json:"comparisons"`
	Customers      []CustomerBucket     `json:"customers"`
	CustomerSeries []CustomerSeries     `json:"customer_series,omitempty"`
	PaymentMethods []PaymentMethodTotal `json:"payment_methods"`
	TopProducts    []ABCItem            `json:"top_products"`
	ProductTotals  ProductTotals        `json:"product_totals"`
}
