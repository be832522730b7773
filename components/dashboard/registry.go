package dashboard

import (
	"fmt"
	"sync"
)

// ChartKind selects the go-echarts chart type for a panel.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
	ChartArea ChartKind = "area"
)

// ChartPanel describes one chart card of the dashboard grid.
type ChartPanel struct {
	Code  string
	Title string
	Kind  ChartKind
}

// ChartSpec is the axis + series input a panel renders from.
type ChartSpec struct {
	XAxis  []string
	Series []ChartSeries
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
	Color  string
	Dashed bool
}

// ChartPoint represents an individual labeled value.
type ChartPoint struct {
	Label string
	Value float64
}

// SpecBuilder projects datasets into a panel's chart spec.
type SpecBuilder func(Datasets) ChartSpec

type panelEntry struct {
	panel ChartPanel
	build SpecBuilder
}

// Registry stores chart panels in display order.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	panels map[string]panelEntry
}

// NewRegistry builds a registry holding the four default panels.
func NewRegistry() *Registry {
	reg := &Registry{panels: map[string]panelEntry{}}
	reg.registerDefaults()
	return reg
}

// NewEmptyRegistry builds a registry without panels.
func NewEmptyRegistry() *Registry {
	return &Registry{panels: map[string]panelEntry{}}
}

func (r *Registry) registerDefaults() {
	for _, def := range defaultPanels {
		_ = r.RegisterPanel(def.panel, def.build)
	}
}

// RegisterPanel adds or replaces a panel. Replacing keeps the existing position.
func (r *Registry) RegisterPanel(panel ChartPanel, build SpecBuilder) error {
	if panel.Code == "" {
		return fmt.Errorf("chart panel code is required")
	}
	if build == nil {
		return fmt.Errorf("chart panel %s requires a spec builder", panel.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.panels[panel.Code]; !exists {
		r.order = append(r.order, panel.Code)
	}
	r.panels[panel.Code] = panelEntry{panel: panel, build: build}
	return nil
}

// Panel fetches a panel by code.
func (r *Registry) Panel(code string) (ChartPanel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.panels[code]
	return entry.panel, ok
}

// Panels returns all panels in registration order.
func (r *Registry) Panels() []ChartPanel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChartPanel, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.panels[code].panel)
	}
	return out
}

// Spec builds the chart spec for a panel.
func (r *Registry) Spec(code string, data Datasets) (ChartSpec, bool) {
	r.mu.RLock()
	entry, ok := r.panels[code]
	r.mu.RUnlock()
	if !ok {
		return ChartSpec{}, false
	}
	return entry.build(data), true
}

var defaultPanels = []panelEntry{
	{
		panel: ChartPanel{Code: "sales.trend", Title: "Sales Trend & Forecast", Kind: ChartLine},
		build: func(d Datasets) ChartSpec {
			actual := ChartSeries{Name: "Actual Sales", Color: "#3B82F6"}
			forecast := ChartSeries{Name: "Forecast", Color: "#10B981", Dashed: true}
			axis := make([]string, len(d.SalesTrend))
			for i, p := range d.SalesTrend {
				axis[i] = p.Name
				actual.Points = append(actual.Points, ChartPoint{Label: p.Name, Value: p.Sales})
				forecast.Points = append(forecast.Points, ChartPoint{Label: p.Name, Value: p.Forecast})
			}
			return ChartSpec{XAxis: axis, Series: []ChartSeries{actual, forecast}}
		},
	},
	{
		panel: ChartPanel{Code: "sales.top_products", Title: "Top Products", Kind: ChartBar},
		build: func(d Datasets) ChartSpec {
			return namedValueSpec("sales", "#4F46E5", d.TopProducts)
		},
	},
	{
		panel: ChartPanel{Code: "customers.demographics", Title: "Customer Demographics", Kind: ChartPie},
		build: func(d Datasets) ChartSpec {
			return namedValueSpec("value", "", d.Demographics)
		},
	},
	{
		panel: ChartPanel{Code: "sales.revenue_growth", Title: "Revenue Growth", Kind: ChartArea},
		build: func(d Datasets) ChartSpec {
			series := ChartSeries{Name: "sales", Color: "#8884d8"}
			axis := make([]string, len(d.SalesTrend))
			for i, p := range d.SalesTrend {
				axis[i] = p.Name
				series.Points = append(series.Points, ChartPoint{Label: p.Name, Value: p.Sales})
			}
			return ChartSpec{XAxis: axis, Series: []ChartSeries{series}}
		},
	},
}

func namedValueSpec(name, color string, values []NamedValue) ChartSpec {
	series := ChartSeries{Name: name, Color: color}
	axis := make([]string, len(values))
	for i, v := range values {
		axis[i] = v.Name
		series.Points = append(series.Points, ChartPoint{Label: v.Name, Value: v.Value})
	}
	return ChartSpec{XAxis: axis, Series: []ChartSeries{series}}
}
