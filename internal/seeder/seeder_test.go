package seeder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/logging"
)

type fakeBackend struct {
	mu         sync.Mutex
	nextID     int64
	categories int
	bulkSizes  []int
	inventory  int
	customers  int
	denyAll    bool
}

func (b *fakeBackend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.denyAll {
		reply(w, http.StatusForbidden, "Access denied", nil)
		return
	}

	switch r.URL.Path {
	case "/api/categories/add":
		var in client.CategoryInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.categories++
		reply(w, http.StatusCreated, "Category created", map[string]any{"id": b.id(), "name": in.Name})
	case "/api/products/bulk":
		var in []client.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.bulkSizes = append(b.bulkSizes, len(in))
		out := make([]map[string]any, 0, len(in))
		for _, p := range in {
			out = append(out, map[string]any{"id": b.id(), "name": p.Name, "price": p.Price})
		}
		reply(w, http.StatusCreated, "Products created", out)
	case "/api/inventory/add":
		b.inventory++
		reply(w, http.StatusCreated, "Inventory created", map[string]any{"id": b.id()})
	case "/api/users/register":
		b.customers++
		reply(w, http.StatusCreated, "Registered", map[string]any{"id": b.id(), "token": "t", "role": "CUSTOMER"})
	default:
		reply(w, http.StatusNotFound, "no route", nil)
	}
}

func reply(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": status, "message": message, "data": data})
}

func newRunner(t *testing.T, backend *fakeBackend, cfg *Config) *Runner {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	api := client.New(client.Config{BaseURL: server.URL + "/api"}, client.WithCredentials(client.StaticCredentials("admin-token")))
	return NewRunner(cfg, api, logging.Discard())
}

func testConfig() *Config {
	return &Config{
		Categories:          2,
		ProductsPerCategory: 5,
		BatchSize:           2,
		Customers:           3,
		Inventory:           true,
		Seed:                42,
		Price:               PriceRange{Min: 1, Max: 100},
	}
}

func TestRunner_Run(t *testing.T) {
	backend := &fakeBackend{}
	report, err := newRunner(t, backend, testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Report{Categories: 2, Products: 10, Inventory: 10, Customers: 3}, report)
	assert.Equal(t, []int{2, 2, 1, 2, 2, 1}, backend.bulkSizes)
	assert.Equal(t, 10, backend.inventory)
	assert.Equal(t, 3, backend.customers)
}

func TestRunner_SkipsInventory(t *testing.T) {
	cfg := testConfig()
	cfg.Inventory = false
	cfg.Customers = 0
	backend := &fakeBackend{}

	report, err := newRunner(t, backend, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inventory)
	assert.Equal(t, 0, backend.inventory)
}

func TestRunner_StopsOnAuthFailure(t *testing.T) {
	backend := &fakeBackend{denyAll: true}
	report, err := newRunner(t, backend, testConfig()).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrAuth)
	assert.Equal(t, 0, report.Categories)
	assert.Empty(t, backend.bulkSizes)
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(7, PriceRange{Min: 5, Max: 10})
	b := NewGenerator(7, PriceRange{Min: 5, Max: 10})

	pa, pb := a.Product(1), b.Product(1)
	assert.Equal(t, pa, pb)
	assert.GreaterOrEqual(t, pa.Price, 5.0)
	assert.LessOrEqual(t, pa.Price, 10.0)
	assert.Equal(t, int64(1), pa.CategoryID)
	assert.NotEmpty(t, pa.SKU)
}

func TestGenerator_UniqueCategoryNames(t *testing.T) {
	g := NewGenerator(1, PriceRange{Min: 1, Max: 2})
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c := g.Category()
		assert.False(t, seen[c.Name], "duplicate category %q", c.Name)
		seen[c.Name] = true
		assert.NotEmpty(t, c.Description)
	}
}

func TestGenerator_CustomerPasswordLength(t *testing.T) {
	g := NewGenerator(3, PriceRange{Min: 1, Max: 2})
	c := g.Customer()
	assert.Len(t, c.Password, 12)
	assert.Contains(t, c.Email, "@example.com")
	assert.Equal(t, client.RoleCustomer, c.Role)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Categories)
	assert.Equal(t, 10, cfg.ProductsPerCategory)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.True(t, cfg.Inventory)
	assert.Equal(t, 50, cfg.TotalProducts())
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: 3\nbatch_size: 4\nprice:\n  min: 2\n  max: 20\n"), 0o600))

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Categories)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.Equal(t, 20.0, cfg.Price.Max)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative categories", func(c *Config) { c.Categories = -1 }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero min price", func(c *Config) { c.Price.Min = 0 }},
		{"inverted range", func(c *Config) { c.Price.Max = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, testConfig().Validate())
}

func TestEmailPart(t *testing.T) {
	assert.Equal(t, "oconnor", emailPart("O'Connor"))
	assert.Equal(t, "annemarie", emailPart("Anne Marie"))
	assert.Equal(t, "user", emailPart("李"))
}
