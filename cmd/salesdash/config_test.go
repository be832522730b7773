package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9876", cfg.Listen)
	assert.Equal(t, transportFiber, cfg.Transport)
	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)
	orders, err := cfg.Orders()
	require.NoError(t, err)
	assert.Len(t, orders, 7)
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
listen: ":8080"
base_path: /ops
transport: http
log:
  level: debug
  format: json
charts:
  assets_host: https://cdn.example.com/echarts/
  cache_ttl: 30s
seed_orders:
  - id: "#1"
    product: Trail Runner
    amount: "42.50"
    status: Shipped
    date: "2024-03-01"
  - id: "#2"
    product: Court Classic
    amount: "12.00"
    status: Returned
    date: "2024-03-02"
`))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "/ops", cfg.BasePath)
	assert.Equal(t, transportHTTP, cfg.Transport)
	assert.Equal(t, "https://cdn.example.com/echarts/", cfg.Charts.AssetsHost)

	orders, err := cfg.Orders()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "42.5", orders[0].Amount.String())
	assert.False(t, orders[1].Status.Known())
}

func TestParseConfigRejectsUnknownFields(t *testing.T) {
	_, err := ParseConfig([]byte("listen: \":80\"\nport: 80\n"))
	assert.Error(t, err)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"transport": "transport: grpc\n",
		"base path": "base_path: admin/\n",
		"ttl":       "charts:\n  cache_ttl: soon\n",
		"seed date": "seed_orders:\n  - {id: \"#1\", product: x, amount: \"1\", status: Shipped, date: \"March\"}\n",
		"dup ids":   "seed_orders:\n  - {id: \"#1\", product: x, amount: \"1\", status: Shipped, date: \"2024-01-01\"}\n  - {id: \"#1\", product: y, amount: \"2\", status: Shipped, date: \"2024-01-02\"}\n",
		"negative":  "seed_orders:\n  - {id: \"#1\", product: x, amount: \"-1\", status: Shipped, date: \"2024-01-01\"}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salesdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: http\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, transportHTTP, cfg.Transport)
	assert.Equal(t, ":9876", cfg.Listen)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	cfg := defaultConfig()
	cmd := serveCmd{Listen: ":1", Transport: transportHTTP, AssetsHost: "https://cdn/"}
	cmd.apply(&cfg)
	assert.Equal(t, ":1", cfg.Listen)
	assert.Equal(t, transportHTTP, cfg.Transport)
	assert.Equal(t, "/admin", cfg.BasePath)
	assert.Equal(t, "https://cdn/", cfg.Charts.AssetsHost)
}

func TestNewLogger(t *testing.T) {
	cfg := defaultConfig()
	cfg.Log.Format = "json"
	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger(&buf)
	assert.Error(t, err)
}

func TestNewDashboard(t *testing.T) {
	cfg := defaultConfig()
	cfg.Charts.CacheTTL = ""
	d, err := newDashboard(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/admin", d.BasePath)
	assert.NotNil(t, d.HTTPHandler())
}

func TestNewDashboardRejectsIncompleteTemplatesDir(t *testing.T) {
	cfg := defaultConfig()
	cfg.Templates = t.TempDir()
	_, err := newDashboard(cfg, nil)
	require.ErrorIs(t, err, dashboard.ErrTemplateMissing)
}

func TestParseConfigTemplatesDir(t *testing.T) {
	cfg, err := ParseConfig([]byte("templates_dir: ./pages\n"))
	require.NoError(t, err)
	assert.Equal(t, "./pages", cfg.Templates)
}

func TestOrdersCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := ordersCmd{Status: "Processing", Sort: []string{"amount", "Amount"}}
	require.NoError(t, cmd.run(context.Background(), defaultConfig(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[1], "#12348")
	assert.Contains(t, lines[2], "#12346")
	assert.Contains(t, lines[3], "#12351")
	assert.Contains(t, buf.String(), "sort: amount desc")
	assert.Contains(t, buf.String(), "rows: 3/7")
}

func TestOrdersCommandEmptyFilter(t *testing.T) {
	var buf bytes.Buffer
	cmd := ordersCmd{Status: "Cancelled"}
	require.NoError(t, cmd.run(context.Background(), defaultConfig(), &buf))
	assert.Contains(t, buf.String(), "No orders match this status.")
}

func TestOrdersCommandRejectsUnknownSort(t *testing.T) {
	cmd := ordersCmd{Sort: []string{"price"}}
	assert.Error(t, cmd.run(context.Background(), defaultConfig(), &bytes.Buffer{}))
}

func TestCheckConfigCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&checkConfigCmd{}).run(defaultConfig(), &out))
	assert.Contains(t, out.String(), "seed_orders=7")

	cfg := defaultConfig()
	cfg.SeedOrders = []seedOrder{{ID: "#1", Product: "Desk", Amount: "lots", Status: "Shipped", Date: "2024-02-01"}}
	out.Reset()
	require.Error(t, (&checkConfigCmd{}).run(cfg, &out))
	assert.Empty(t, out.String())
}
