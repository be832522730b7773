package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// RenderedChart is the markup of one chart panel.
type RenderedChart struct {
	Code  string    `json:"code"`
	Title string    `json:"title"`
	Kind  ChartKind `json:"kind"`
	Theme string    `json:"theme"`
	HTML  string    `json:"html"`
}

// ChartRenderer turns a panel and its dataset into embeddable markup. Datasets are never mutated.
type ChartRenderer interface {
	RenderPanel(ctx context.Context, panel ChartPanel, spec ChartSpec, theme string) (RenderedChart, error)
}

// EChartsRenderer renders server-side chart HTML with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	assetsHost string
	height     string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartCache injects a render cache; nil disables caching.
func WithChartCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the default panel height.
func WithChartHeight(height string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewEChartsRenderer builds a renderer sharing the process-wide chart cache.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderPanel renders the panel, memoized per panel, theme and spec contents.
func (r *EChartsRenderer) RenderPanel(_ context.Context, panel ChartPanel, spec ChartSpec, theme string) (RenderedChart, error) {
	if theme == "" {
		theme = types.ThemeWesteros
	}
	if len(spec.Series) == 0 {
		return RenderedChart{}, fmt.Errorf("dashboard: chart %s has no series", panel.Code)
	}
	renderFn := func() (string, error) {
		return r.render(panel, spec, theme)
	}

	var (
		html string
		err  error
	)
	if r.cache != nil {
		key := fmt.Sprintf("%s:%s:%s:%s", panel.Code, panel.Kind, theme, specHash(spec))
		html, err = r.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return RenderedChart{}, err
	}
	return RenderedChart{
		Code:  panel.Code,
		Title: panel.Title,
		Kind:  panel.Kind,
		Theme: theme,
		HTML:  html,
	}, nil
}

func (r *EChartsRenderer) render(panel ChartPanel, spec ChartSpec, theme string) (string, error) {
	switch panel.Kind {
	case ChartLine:
		return r.renderLineChart(spec, theme, false)
	case ChartArea:
		return r.renderLineChart(spec, theme, true)
	case ChartBar:
		return r.renderBarChart(spec, theme)
	case ChartPie:
		return r.renderPieChart(spec, theme)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", panel.Kind)
	}
}

func (r *EChartsRenderer) renderLineChart(spec ChartSpec, theme string, area bool) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(theme, !area)...)
	line.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		var seriesOpts []charts.SeriesOpts
		style := opts.LineStyle{Color: s.Color}
		if s.Dashed {
			style.Type = "dashed"
		}
		seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(style))
		if area {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Color: s.Color}))
		}
		line.AddSeries(s.Name, toLineData(s.Points), seriesOpts...)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderBarChart(spec ChartSpec, theme string) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(theme, false)...)
	bar.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{
		AxisLabel: &opts.AxisLabel{Rotate: 45},
	}))
	bar.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		bar.AddSeries(s.Name, toBarData(s.Points), charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderPieChart(spec ChartSpec, theme string) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(theme, true)...)
	for _, s := range spec.Series {
		pie.AddSeries(s.Name, toPieData(s.Points),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b} {d}%"}),
		)
	}
	return renderChart(pie)
}

func (r *EChartsRenderer) globalChartOptions(theme string, legend bool) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{
			Name:      name,
			Value:     point.Value,
			ItemStyle: &opts.ItemStyle{Color: PieColors[i%len(PieColors)]},
		}
	}
	return data
}

func specHash(spec ChartSpec) string {
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	return contentHash(b)
}
