package dashboard

import "github.com/shopspring/decimal"

// SalesPoint is one month of the sales trend dataset.
type SalesPoint struct {
	Name     string  `json:"name"`
	Sales    float64 `json:"sales"`
	Orders   float64 `json:"orders"`
	Forecast float64 `json:"forecast"`
}

// NamedValue is a flat {name, value} record consumed by the chart panels.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// StatTrend is the direction of a stat card delta.
type StatTrend string

const (
	TrendUp   StatTrend = "up"
	TrendDown StatTrend = "down"
)

// StatCard is a headline figure. The values are placeholders and are not
// derived from the order list.
type StatCard struct {
	Title      string    `json:"title"`
	Value      string    `json:"value"`
	Icon       string    `json:"icon"`
	Trend      StatTrend `json:"trend"`
	TrendValue string    `json:"trend_value"`
}

// PieColors is the slice palette of the demographics panel.
var PieColors = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8"}

var defaultSalesTrend = []SalesPoint{
	{Name: "Jan", Sales: 4000, Orders: 150, Forecast: 4200},
	{Name: "Feb", Sales: 3000, Orders: 120, Forecast: 3300},
	{Name: "Mar", Sales: 5000, Orders: 180, Forecast: 5200},
	{Name: "Apr", Sales: 4500, Orders: 160, Forecast: 4700},
	{Name: "May", Sales: 6000, Orders: 200, Forecast: 6300},
	{Name: "Jun", Sales: 5500, Orders: 190, Forecast: 5800},
}

var defaultCategories = []NamedValue{
	{Name: "Electronics", Value: 35},
	{Name: "Clothing", Value: 25},
	{Name: "Books", Value: 20},
	{Name: "Sports", Value: 15},
	{Name: "Others", Value: 5},
}

var defaultTopProducts = []NamedValue{
	{Name: "Nike Air Max", Value: 1200},
	{Name: "Adidas Ultra Boost", Value: 980},
	{Name: "Puma RS-X", Value: 850},
	{Name: "New Balance 990", Value: 720},
	{Name: "Under Armour Hovr", Value: 650},
}

var defaultDemographics = []NamedValue{
	{Name: "18-24", Value: 20},
	{Name: "25-34", Value: 35},
	{Name: "35-44", Value: 25},
	{Name: "45-54", Value: 15},
	{Name: "55+", Value: 5},
}

var defaultStatCards = []StatCard{
	{Title: "Total Revenue", Value: "$54,239", Icon: "dollar-sign", Trend: TrendUp, TrendValue: "+12.5% from last month"},
	{Title: "Total Orders", Value: "1,432", Icon: "shopping-cart", Trend: TrendUp, TrendValue: "+8.2% from last month"},
	{Title: "New Customers", Value: "892", Icon: "users", Trend: TrendDown, TrendValue: "-3.1% from last month"},
	{Title: "Conversion Rate", Value: "2.4%", Icon: "trending-up", Trend: TrendUp, TrendValue: "+1.2% from last month"},
}

// DefaultOrders returns the seed orders, three Processing, two Shipped and two
// Delivered.
func DefaultOrders() []Order {
	return []Order{
		{ID: "#12345", Product: "Nike Air Max", Amount: decimal.RequireFromString("129.99"), Status: StatusDelivered, Date: "2024-02-20"},
		{ID: "#12346", Product: "Adidas Ultra Boost", Amount: decimal.RequireFromString("159.99"), Status: StatusProcessing, Date: "2024-02-19"},
		{ID: "#12347", Product: "Puma RS-X", Amount: decimal.RequireFromString("89.99"), Status: StatusShipped, Date: "2024-02-18"},
		{ID: "#12348", Product: "New Balance 990", Amount: decimal.RequireFromString("174.99"), Status: StatusProcessing, Date: "2024-02-17"},
		{ID: "#12349", Product: "Under Armour Hovr", Amount: decimal.RequireFromString("139.99"), Status: StatusDelivered, Date: "2024-02-16"},
		{ID: "#12350", Product: "Reebok Classic", Amount: decimal.RequireFromString("79.99"), Status: StatusShipped, Date: "2024-02-15"},
		{ID: "#12351", Product: "Nike Zoom", Amount: decimal.RequireFromString("149.99"), Status: StatusProcessing, Date: "2024-02-14"},
	}
}

// DefaultSalesTrend returns the monthly sales/forecast dataset.
func DefaultSalesTrend() []SalesPoint {
	return append([]SalesPoint(nil), defaultSalesTrend...)
}

// DefaultCategories returns the category split dataset.
func DefaultCategories() []NamedValue {
	return append([]NamedValue(nil), defaultCategories...)
}

// DefaultTopProducts returns units sold per top product.
func DefaultTopProducts() []NamedValue {
	return append([]NamedValue(nil), defaultTopProducts...)
}

// DefaultDemographics returns the customer age buckets.
func DefaultDemographics() []NamedValue {
	return append([]NamedValue(nil), defaultDemographics...)
}

// DefaultStatCards returns the four headline cards.
func DefaultStatCards() []StatCard {
	return append([]StatCard(nil), defaultStatCards...)
}
