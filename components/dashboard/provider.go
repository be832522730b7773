package dashboard

import "context"

// Datasets bundles the static figures behind the stat cards and chart panels.
type Datasets struct {
	Stats        []StatCard
	SalesTrend   []SalesPoint
	TopProducts  []NamedValue
	Demographics []NamedValue
	Categories   []NamedValue
}

// DataSource supplies the chart and stat card data. Renderers must not mutate
// what it returns.
type DataSource interface {
	Datasets(ctx context.Context) (Datasets, error)
}

// DataSourceFunc adapts a function into a DataSource.
type DataSourceFunc func(ctx context.Context) (Datasets, error)

// Datasets satisfies DataSource.
func (fn DataSourceFunc) Datasets(ctx context.Context) (Datasets, error) {
	return fn(ctx)
}

// StaticDataSource serves the built-in placeholder datasets.
type StaticDataSource struct{}

// Datasets returns fresh copies of the defaults.
func (StaticDataSource) Datasets(context.Context) (Datasets, error) {
	return Datasets{
		Stats:        DefaultStatCards(),
		SalesTrend:   DefaultSalesTrend(),
		TopProducts:  DefaultTopProducts(),
		Demographics: DefaultDemographics(),
		Categories:   DefaultCategories(),
	}, nil
}
