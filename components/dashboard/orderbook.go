package dashboard

// OrderBook owns the canonical order list, the status filter, and the sort
// descriptor. Sorting rewrites the canonical list; filtering only affects Rows.
// OrderBook is not safe for concurrent use; Session serializes access.
type OrderBook struct {
	orders []Order
	filter StatusFilter
	sort   *SortDescriptor
}

// NewOrderBook copies the seed orders into a new book with no filter and no sort.
func NewOrderBook(seed []Order) *OrderBook {
	orders := make([]Order, len(seed))
	copy(orders, seed)
	return &OrderBook{orders: orders, filter: FilterAll}
}

// Sort applies a header click on key and replaces the canonical order.
func (b *OrderBook) Sort(key SortKey) SortDescriptor {
	next := NextSortDescriptor(b.sort, key)
	b.sort = &next
	b.orders = SortOrders(b.orders, next)
	return next
}

// SetFilter changes the visible status.
func (b *OrderBook) SetFilter(filter StatusFilter) {
	if filter == "" {
		filter = FilterAll
	}
	b.filter = filter
}

// Filter returns the active status filter.
func (b *OrderBook) Filter() StatusFilter {
	return b.filter
}

// Descriptor returns the active sort, or nil while the seed order is intact.
func (b *OrderBook) Descriptor() *SortDescriptor {
	if b.sort == nil {
		return nil
	}
	d := *b.sort
	return &d
}

// Orders returns a copy of the canonical list.
func (b *OrderBook) Orders() []Order {
	out := make([]Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Rows returns the visible rows: the canonical list (already in sort order)
// reduced by the status filter.
func (b *OrderBook) Rows() []Order {
	rows := FilterOrders(b.orders, b.filter)
	out := make([]Order, len(rows))
	copy(out, rows)
	return out
}
