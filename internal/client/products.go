package client

import (
	"context"
	"fmt"
	"net/http"
)

type ProductsService struct {
	c *Client
}

func (s *ProductsService) Add(ctx context.Context, in ProductInput) (*Product, error) {
	const op = "products.add"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Product](ctx, s.c, op, http.MethodPost, "/products", nil, in)
}

// AddBulk creates several products in one request.
func (s *ProductsService) AddBulk(ctx context.Context, in []ProductInput) ([]Product, error) {
	const op = "products.add_bulk"
	if err := validateEach(op, in); err != nil {
		return nil, err
	}
	out, err := call[[]Product](ctx, s.c, op, http.MethodPost, "/products/bulk", nil, in)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// List supports every ListOptions field.
func (s *ProductsService) List(ctx context.Context, opts *ListOptions) (*Page[Product], error) {
	return list[Product](ctx, s.c, "products.list", "/products", opts.Query(), opts.size())
}

func (s *ProductsService) Get(ctx context.Context, id int64) (*Product, error) {
	return call[Product](ctx, s.c, "products.get", http.MethodGet, idPath("/products/%d", id), nil, nil)
}

func (s *ProductsService) Update(ctx context.Context, id int64, in ProductUpdate) (*Product, error) {
	const op = "products.update"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Product](ctx, s.c, op, http.MethodPut, idPath("/products/%d", id), nil, in)
}

func (s *ProductsService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "products.delete", http.MethodDelete, idPath("/products/%d", id), nil, nil, nil)
}

// ListGraphQL fetches every product through the GraphQL endpoint.
func (s *ProductsService) ListGraphQL(ctx context.Context) ([]Product, error) {
	var items []Product
	if err := s.c.GraphQL.Query(ctx, allProductsQuery, nil, "allProducts", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetGraphQL fetches one product through the GraphQL endpoint. A null
// result is reported as KindNotFound.
func (s *ProductsService) GetGraphQL(ctx context.Context, id int64) (*Product, error) {
	var p *Product
	if err := s.c.GraphQL.Query(ctx, fmt.Sprintf(productByIDQuery, id), nil, "productById", &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &Error{
			Kind:      KindNotFound,
			Operation: "graphql.productById",
			Message:   fmt.Sprintf("Product not found with id: %d", id),
		}
	}
	return p, nil
}
