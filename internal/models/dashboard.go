package models

type StatusCount struct {
	Status     OrderStatus `json:"status"`
	StatusCode string      `json:"status_code"`
	Count      int64       `json:"count"`
	Amount     int64       `json:"amount"`
}

type MonthlyRevenue struct {
	Key     string `json:"key"`   // YYYY-MM
	Month   string `json:"month"` // MM월
	Revenue int64  `json:"revenue"`
}

type Dashboard struct {
	TotalCustomers     int64            `json:"total_customers"`
	TotalOrders        int64            `json:"total_orders"`
	PendingOrders      int64            `json:"pending_orders"`
	TotalRevenue       int64            `json:"total_revenue"`
	StatusDistribution []StatusCount    `json:"status_distribution"`
	MonthlyRevenue     []MonthlyRevenue `json:"monthly_revenue"`
	RecentOrders       []OrderSummary   `json:"recent_orders"`
}

type StatsSummary struct {
	TotalRevenue      int64   `json:"total_revenue"`
	TotalOrders       int64   `json:"total_orders"`
	CompletedOrders   int64   `json:"completed_orders"`
	AverageOrderValue int64   `json:"average_order_value"`
	NewCustomers      int64   `json:"new_customers"`
	CompletionRate    float64 `json:"completion_rate"`
}

type ProductSales struct {
	ProductType string `json:"product_type"`
	OrderCount  int64  `json:"order_count"`
	Revenue     int64  `json:"revenue"`
}

type CustomerSales struct {
	CustomerID  uint   `json:"customer_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	OrderCount  int64  `json:"order_count"`
	TotalAmount int64  `json:"total_amount"`
}

type Stats struct {
	Period         string          `json:"period"`
	From           string          `json:"from"`
	Summary        StatsSummary    `json:"summary"`
	SalesByProduct []ProductSales  `json:"sales_by_product"`
	SalesByStatus  []StatusCount   `json:"sales_by_status"`
	TopCustomers   []CustomerSales `json:"top_customers"`
}

type SearchResult struct {
	Query     string         `json:"query"`
	Customers []Customer     `json:"customers"`
	Orders    []OrderSummary `json:"orders"`
	Products  []Product      `json:"products"`
}
