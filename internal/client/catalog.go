package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	TransportREST    = "rest"
	TransportGraphQL = "graphql"
)

// CatalogReader is the read side of the catalog. RESTReader and
// GraphQLReader return the same shapes and can be swapped freely.
type CatalogReader interface {
	ListProducts(ctx context.Context, opts *ListOptions) (*Page[Product], error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListCategories(ctx context.Context, opts *ListOptions) (*Page[Category], error)
	Transport() string
}

// NewCatalogReader returns the reader for transport ("rest" or "graphql").
// An empty transport selects REST.
func NewCatalogReader(c *Client, transport string) (CatalogReader, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", TransportREST:
		return &RESTReader{c: c}, nil
	case TransportGraphQL:
		return &GraphQLReader{c: c}, nil
	default:
		return nil, fmt.Errorf("unknown catalog transport %q", transport)
	}
}

// RESTReader reads the catalog through the per-resource endpoints.
type RESTReader struct {
	c *Client
}

func NewRESTReader(c *Client) *RESTReader {
	return &RESTReader{c: c}
}

func (r *RESTReader) ListProducts(ctx context.Context, opts *ListOptions) (*Page[Product], error) {
	return r.c.Products.List(ctx, opts)
}

func (r *RESTReader) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return r.c.Products.Get(ctx, id)
}

func (r *RESTReader) ListCategories(ctx context.Context, opts *ListOptions) (*Page[Category], error) {
	return r.c.Categories.List(ctx, opts)
}

func (r *RESTReader) Transport() string {
	return TransportREST
}

// GraphQLReader reads the catalog through the GraphQL endpoint. The
// endpoint is not paginated, so list options are ignored (with a warning)
// and every list is returned as a single last page.
type GraphQLReader struct {
	c *Client
}

func NewGraphQLReader(c *Client) *GraphQLReader {
	return &GraphQLReader{c: c}
}

func (r *GraphQLReader) ListProducts(ctx context.Context, opts *ListOptions) (*Page[Product], error) {
	r.warnIgnored(ctx, "products", opts)
	items, err := r.c.Products.ListGraphQL(ctx)
	if err != nil {
		return nil, err
	}
	return singlePage(items), nil
}

func (r *GraphQLReader) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return r.c.Products.GetGraphQL(ctx, id)
}

func (r *GraphQLReader) ListCategories(ctx context.Context, opts *ListOptions) (*Page[Category], error) {
	r.warnIgnored(ctx, "categories", opts)
	items, err := r.c.Categories.ListGraphQL(ctx)
	if err != nil {
		return nil, err
	}
	return singlePage(items), nil
}

func (r *GraphQLReader) Transport() string {
	return TransportGraphQL
}

func (r *GraphQLReader) warnIgnored(ctx context.Context, list string, opts *ListOptions) {
	q := opts.Query()
	if len(q) == 0 {
		return
	}
	names := make([]string, 0, len(q))
	for k := range q {
		names = append(names, k)
	}
	slices.Sort(names)
	r.c.logger.WarnContext(ctx, "graphql catalog ignores list options",
		"list", list,
		"options", strings.Join(names, ","),
	)
}
