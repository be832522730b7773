package dashboard

// View is the derived, render-ready projection of a session.
type View struct {
	SessionID     string          `json:"session_id"`
	SidebarOpen   bool            `json:"sidebar_open"`
	DarkMode      bool            `json:"dark_mode"`
	RootClass     string          `json:"root_class"`
	ThemeStyle    string          `json:"theme_style"`
	ThemeVariant  string          `json:"theme_variant"`
	DateRange     DateRangeView   `json:"date_range"`
	StatusFilter  StatusFilter    `json:"status_filter"`
	StatusOptions []StatusOption  `json:"status_options"`
	Sort          *SortDescriptor `json:"sort"`
	Columns       []ColumnView    `json:"columns"`
	Rows          []OrderRow      `json:"rows"`
	Stats         []StatCard      `json:"stats"`
	Charts        []RenderedChart `json:"charts"`
}

// DateRangeView carries the range endpoints as YYYY-MM-DD, empty when unset.
type DateRangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StatusOption is one entry of the status select.
type StatusOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// ColumnView is a sortable table header.
type ColumnView struct {
	Key       SortKey       `json:"key"`
	Label     string        `json:"label"`
	Active    bool          `json:"active"`
	Direction SortDirection `json:"direction,omitempty"`
}

// OrderRow is one table row with display formatting applied.
type OrderRow struct {
	ID          string      `json:"id"`
	Product     string      `json:"product"`
	Amount      string      `json:"amount"`
	Status      OrderStatus `json:"status"`
	StatusClass string      `json:"status_class"`
	Date        string      `json:"date"`
}

var tableColumns = []ColumnView{
	{Key: SortByID, Label: "Order ID"},
	{Key: SortByProduct, Label: "Product"},
	{Key: SortByAmount, Label: "Amount"},
	{Key: SortByStatus, Label: "Status"},
}

// BuildView derives the render model from a snapshot and pre-rendered charts.
func BuildView(snap SessionSnapshot, data Datasets, rendered []RenderedChart) View {
	theme := ThemeFor(snap.Dark)
	return View{
		SessionID:    snap.ID,
		SidebarOpen:  snap.SidebarOpen,
		DarkMode:     snap.Dark,
		RootClass:    snap.RootClass,
		ThemeStyle:   theme.CSSVariablesInline(),
		ThemeVariant: theme.Variant,
		DateRange: DateRangeView{
			Start: FormatDay(snap.DateRange.Start),
			End:   FormatDay(snap.DateRange.End),
		},
		StatusFilter:  snap.Filter,
		StatusOptions: statusOptions(snap.Filter),
		Sort:          snap.Sort,
		Columns:       columns(snap.Sort),
		Rows:          orderRows(snap.Rows),
		Stats:         append([]StatCard(nil), data.Stats...),
		Charts:        rendered,
	}
}

func statusOptions(active StatusFilter) []StatusOption {
	options := make([]StatusOption, 0, len(OrderStatuses)+1)
	options = append(options, StatusOption{
		Value:    string(FilterAll),
		Label:    "All Status",
		Selected: active == FilterAll,
	})
	for _, status := range OrderStatuses {
		options = append(options, StatusOption{
			Value:    string(status),
			Label:    string(status),
			Selected: active == StatusFilter(status),
		})
	}
	return options
}

func columns(sort *SortDescriptor) []ColumnView {
	out := make([]ColumnView, len(tableColumns))
	copy(out, tableColumns)
	if sort == nil {
		return out
	}
	for i := range out {
		if out[i].Key == sort.Key {
			out[i].Active = true
			out[i].Direction = sort.Direction
		}
	}
	return out
}

func orderRows(orders []Order) []OrderRow {
	rows := make([]OrderRow, len(orders))
	for i, order := range orders {
		rows[i] = OrderRow{
			ID:          order.ID,
			Product:     order.Product,
			Amount:      FormatAmount(order),
			Status:      order.Status,
			StatusClass: statusBadgeClass(order.Status),
			Date:        order.Date,
		}
	}
	return rows
}

// FormatAmount renders the order amount in dollars.
func FormatAmount(order Order) string {
	return "$" + order.Amount.StringFixed(2)
}

func statusBadgeClass(status OrderStatus) string {
	switch status {
	case StatusDelivered:
		return "badge-delivered"
	case StatusProcessing:
		return "badge-processing"
	default:
		return "badge-shipped"
	}
}
