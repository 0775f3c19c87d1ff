package client

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshop/shopctl/internal/logging"
)

var catalogProducts = []map[string]any{
	{"id": 1, "name": "Laptop", "price": 999.0, "quantity": 4, "categoryName": "Electronics"},
	{"id": 2, "name": "Novel", "price": 12.0, "quantity": 40, "categoryName": "Books"},
	{"id": 5, "name": "Desk", "price": 150.0, "quantity": 1, "categoryName": "Furniture"},
}

var catalogCategories = []map[string]any{
	{"id": 1, "name": "Electronics", "description": "Gadgets"},
	{"id": 2, "name": "Books", "description": "Reading"},
}

// catalogServer serves the same data over REST and GraphQL.
func catalogServer(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			writeEnvelope(t, w, http.StatusOK, "ok", map[string]any{
				"content": catalogProducts, "pageNumber": 0, "totalElements": 3, "totalPages": 1, "last": true,
			})
		case "/api/products/5":
			writeEnvelope(t, w, http.StatusOK, "ok", catalogProducts[2])
		case "/api/categories/public/all":
			// Older servers use the backend key names.
			writeEnvelope(t, w, http.StatusOK, "ok", map[string]any{
				"content": catalogCategories, "currentPage": 0, "totalItems": 2, "totalPages": 1, "isLast": true,
			})
		case "/graphql":
			body := readAll(t, r)
			switch {
			case containsAll(body, "allProducts"):
				writeJSON(t, w, map[string]any{"data": map[string]any{"allProducts": catalogProducts}})
			case containsAll(body, "productById(id: 5)"):
				writeJSON(t, w, map[string]any{"data": map[string]any{"productById": catalogProducts[2]}})
			case containsAll(body, "allCategories"):
				writeJSON(t, w, map[string]any{"data": map[string]any{"allCategories": catalogCategories}})
			default:
				writeJSON(t, w, map[string]any{"errors": []map[string]any{{"message": "unknown query"}}})
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func productIDs(items []Product) []int64 {
	ids := make([]int64, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func categoryIDs(items []Category) []int64 {
	ids := make([]int64, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestNewCatalogReader(t *testing.T) {
	c := New(Config{})

	tests := []struct {
		transport string
		want      string
		wantErr   bool
	}{
		{"", TransportREST, false},
		{"rest", TransportREST, false},
		{"GraphQL", TransportGraphQL, false},
		{"grpc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			r, err := NewCatalogReader(c, tt.transport)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Transport())
		})
	}
}

func TestCatalogReaders_AreInterchangeable(t *testing.T) {
	c := newTestClient(t, catalogServer(t))
	ctx := context.Background()

	readers := []CatalogReader{NewRESTReader(c), NewGraphQLReader(c)}
	var productSets, categorySets [][]int64

	for _, r := range readers {
		products, err := r.ListProducts(ctx, nil)
		require.NoError(t, err, r.Transport())
		assert.True(t, products.Last)
		assert.NoError(t, products.Validate(0))
		productSets = append(productSets, productIDs(products.Content))

		categories, err := r.ListCategories(ctx, nil)
		require.NoError(t, err, r.Transport())
		assert.True(t, categories.Last)
		categorySets = append(categorySets, categoryIDs(categories.Content))

		desk, err := r.GetProduct(ctx, 5)
		require.NoError(t, err, r.Transport())
		assert.Equal(t, "Desk", desk.Name)
		assert.Equal(t, "Furniture", desk.CategoryName)
	}

	assert.ElementsMatch(t, productSets[0], productSets[1])
	assert.ElementsMatch(t, categorySets[0], categorySets[1])
	assert.Equal(t, []int64{1, 2, 5}, productSets[0])
}

func TestGraphQLReader_SinglePage(t *testing.T) {
	c := newTestClient(t, catalogServer(t))

	page, err := NewGraphQLReader(c).ListProducts(context.Background(), Paging(3, 1))
	require.NoError(t, err)

	assert.Equal(t, 0, page.PageNumber)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.TotalElements)
	assert.True(t, page.Last)
}

func TestGraphQLReader_WarnsOnIgnoredOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo, "text")
	c := newTestClient(t, catalogServer(t), WithLogger(logger))
	r := NewGraphQLReader(c)
	ctx := context.Background()

	_, err := r.ListProducts(ctx, nil)
	require.NoError(t, err)
	_, err = r.ListProducts(ctx, &ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = r.ListProducts(ctx, &ListOptions{CategoryID: Ptr(int64(2)), SortBy: "price"})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "graphql catalog ignores list options")
	assert.Contains(t, out, "list=products")
	assert.Contains(t, out, "categoryId,sortBy")

	buf.Reset()
	_, err = r.ListCategories(ctx, Paging(1, 5))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "list=categories")
	assert.Contains(t, buf.String(), "page,size")
}
