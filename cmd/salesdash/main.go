package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
	dashboardpkg "github.com/goliatone/go-sales-dashboard/pkg/dashboard"
)

type cli struct {
	Config      string         `short:"c" type:"path" env:"SALESDASH_CONFIG" help:"Path to a YAML config file."`
	Serve       serveCmd       `cmd:"" default:"withargs" help:"Serve the sales dashboard."`
	Orders      ordersCmd      `cmd:"" help:"Print the orders table for a status filter and a sequence of header clicks."`
	CheckConfig checkConfigCmd `cmd:"" name:"check-config" help:"Validate a config file and exit."`
}

type serveCmd struct {
	Listen     string `env:"SALESDASH_LISTEN" help:"Listen address (overrides config)."`
	BasePath   string `env:"SALESDASH_BASE_PATH" help:"Route prefix for the dashboard (overrides config)."`
	Transport  string `env:"SALESDASH_TRANSPORT" help:"HTTP transport: fiber or http (overrides config)."`
	AssetsHost string `env:"SALESDASH_ASSETS_HOST" help:"Host serving echarts.min.js (overrides config)."`
}

type ordersCmd struct {
	Status string   `default:"all" help:"Status filter (all, Delivered, Processing, Shipped)."`
	Sort   []string `help:"Header clicks to apply in order (use multiple --sort flags)."`
	All    bool     `help:"Print the canonical list instead of the filtered rows."`
}

type checkConfigCmd struct{}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("salesdash"),
		kong.Description("Server-rendered sales analytics dashboard."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	cfg, err := LoadConfig(app.Config)
	ctx.FatalIfErrorf(err)
	ctx.Bind(cfg)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(ctx context.Context, cfg Config) error {
	cmd.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	d, err := newDashboard(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("salesdash starting",
		slog.String("listen", cfg.Listen),
		slog.String("transport", cfg.Transport),
		slog.String("base_path", cfg.BasePath),
	)
	switch cfg.Transport {
	case transportHTTP:
		return serveHTTP(ctx, cfg.Listen, d, logger)
	default:
		return serveFiber(ctx, cfg.Listen, d, logger)
	}
}

func (cmd *serveCmd) apply(cfg *Config) {
	if cmd.Listen != "" {
		cfg.Listen = cmd.Listen
	}
	if cmd.BasePath != "" {
		cfg.BasePath = cmd.BasePath
	}
	if cmd.Transport != "" {
		cfg.Transport = cmd.Transport
	}
	if cmd.AssetsHost != "" {
		cfg.Charts.AssetsHost = cmd.AssetsHost
	}
}

func newDashboard(cfg Config, logger *slog.Logger) (*dashboardpkg.Dashboard, error) {
	orders, err := cfg.Orders()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	chartOpts := []dashboard.EChartsRendererOption{
		dashboard.WithChartAssetsHost(cfg.Charts.AssetsHost),
		dashboard.WithChartHeight(cfg.Charts.Height),
	}
	if ttl > 0 {
		chartOpts = append(chartOpts, dashboard.WithChartCache(dashboard.NewChartCache(ttl)))
	} else {
		chartOpts = append(chartOpts, dashboard.WithChartCache(nil))
	}
	var renderer dashboard.Renderer
	if cfg.Templates != "" {
		if renderer, err = dashboard.NewTemplateRendererDir(cfg.Templates); err != nil {
			return nil, err
		}
	}
	return dashboardpkg.New(dashboardpkg.Config{
		BasePath:  cfg.BasePath,
		Renderer:  renderer,
		Telemetry: dashboard.NewSlogTelemetry(logger),
		Options: dashboardpkg.Options{
			Sessions: dashboard.NewInMemorySessionStore(dashboard.WithSeedOrders(orders)),
			Charts:   dashboard.NewEChartsRenderer(chartOpts...),
		},
	})
}

func serveFiber(ctx context.Context, addr string, d *dashboardpkg.Dashboard, logger *slog.Logger) error {
	server := router.NewFiberAdapter()
	if err := dashboardpkg.Mount[*fiber.App](d, server.Router()); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		d.Broadcast.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("salesdash shutdown", slog.Any("error", err))
		}
	}()
	return server.Serve(addr)
}

func serveHTTP(ctx context.Context, addr string, d *dashboardpkg.Dashboard, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: d.HTTPHandler()}
	go func() {
		<-ctx.Done()
		// Live streams only return once their subscription closes.
		d.Broadcast.Close()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("salesdash shutdown", slog.Any("error", err))
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (cmd *ordersCmd) Run(ctx context.Context, cfg Config) error {
	return cmd.run(ctx, cfg, os.Stdout)
}

func (cmd *ordersCmd) run(ctx context.Context, cfg Config, out io.Writer) error {
	orders, err := cfg.Orders()
	if err != nil {
		return err
	}
	service := dashboard.NewService(dashboard.Options{
		Sessions: dashboard.NewInMemorySessionStore(dashboard.WithSeedOrders(orders)),
	})
	viewer := dashboard.ViewerContext{SessionID: dashboard.NewSessionID()}

	if err := commands.NewFilterOrdersCommand(service, nil).Execute(ctx, commands.FilterOrdersInput{Viewer: viewer, Status: cmd.Status}); err != nil {
		return err
	}
	sortCmd := commands.NewSortOrdersCommand(service, nil)
	for _, key := range cmd.Sort {
		if err := sortCmd.Execute(ctx, commands.SortOrdersInput{Viewer: viewer, Key: key}); err != nil {
			return err
		}
	}
	result, err := queries.NewOrdersQuery(service).Query(ctx, viewer)
	if err != nil {
		return err
	}
	rows := result.Visible
	if cmd.All {
		rows = result.Canonical
	}
	return printOrders(out, rows, result)
}

func printOrders(out io.Writer, rows []dashboard.Order, result queries.OrdersResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER ID\tPRODUCT\tAMOUNT\tSTATUS\tDATE")
	for _, order := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", order.ID, order.Product, dashboard.FormatAmount(order), order.Status, order.Date)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No orders match this status.")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	sort := "none"
	if result.Sort != nil {
		sort = fmt.Sprintf("%s %s", result.Sort.Key, result.Sort.Direction)
	}
	_, err := fmt.Fprintf(out, "\nfilter: %s  sort: %s  rows: %d/%d\n", result.Filter, sort, len(rows), len(result.Canonical))
	return err
}

func (cmd *checkConfigCmd) Run(cfg Config) error {
	return cmd.run(cfg, os.Stdout)
}

func (cmd *checkConfigCmd) run(cfg Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	orders, err := cfg.Orders()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "config ok: transport=%s listen=%s base_path=%s seed_orders=%d\n", cfg.Transport, cfg.Listen, cfg.BasePath, len(orders))
	return err
}
