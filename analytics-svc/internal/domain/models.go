package domain

import "time"

const ChartDateLayout = "2006-01-02 15:04"

// Uncategorized labels menu items without a category.
const Uncategorized = "Uncategorized"

// Dimension selects what the per-day leader is computed over.
type Dimension string

const (
	ByProduct  Dimension = "product"
	ByCategory Dimension = "category"
)

// CompletedOrder is the slice of an order the revenue chart needs.
type CompletedOrder struct {
	CreatedAt   time.Time
	TotalAmount float64
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type Insights struct {
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	ChartData    []RevenuePoint `json:"chart_data"`
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
}

// DailyLeader is the best-selling label of one UTC day.
type DailyLeader struct {
	Date     string
	Label    string
	Quantity int
	Sales    float64
}

type ProductDay struct {
	Date          string  `json:"date"`
	TopProduct    string  `json:"top_product"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

type CategoryDay struct {
	Date          string  `json:"date"`
	TopCategory   string  `json:"top_category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

type TopProducts struct {
	From      time.Time    `json:"from"`
	To        time.Time    `json:"to"`
	TotalDays int          `json:"total_days"`
	ChartData []ProductDay `json:"chart_data"`
}

type TopCategories struct {
	From      time.Time     `json:"from"`
	To        time.Time     `json:"to"`
	TotalDays int           `json:"total_days"`
	ChartData []CategoryDay `json:"chart_data"`
}

// Summary bundles the three window reports for the dashboard.
type Summary struct {
	Insights      *Insights      `json:"insights"`
	TopProducts   *TopProducts   `json:"top_products"`
	TopCategories *TopCategories `json:"top_categories"`
}

type ProductCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

const (
	SourceLive     = "live"
	SourceDatabase = "database"
)

// Today is the running leaderboard of the current UTC day.
type Today struct {
	Date     string         `json:"date"`
	Orders   int            `json:"orders"`
	Revenue  float64        `json:"revenue"`
	Products []ProductCount `json:"products"`
	Source   string         `json:"source"`
}
