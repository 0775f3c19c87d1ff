package client

import (
	"context"
	"net/http"
)

type CategoriesService struct {
	c *Client
}

func (s *CategoriesService) Add(ctx context.Context, in CategoryInput) (*Category, error) {
	const op = "categories.add"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Category](ctx, s.c, op, http.MethodPost, "/categories/add", nil, in)
}

// List reads the public category listing. Only page and size are honored
// by the server.
func (s *CategoriesService) List(ctx context.Context, opts *ListOptions) (*Page[Category], error) {
	return list[Category](ctx, s.c, "categories.list", "/categories/public/all", opts.Query(), opts.size())
}

func (s *CategoriesService) Get(ctx context.Context, id int64) (*Category, error) {
	return call[Category](ctx, s.c, "categories.get", http.MethodGet, idPath("/categories/%d", id), nil, nil)
}

func (s *CategoriesService) Update(ctx context.Context, id int64, in CategoryUpdate) (*Category, error) {
	return call[Category](ctx, s.c, "categories.update", http.MethodPut, idPath("/categories/update/%d", id), nil, in)
}

func (s *CategoriesService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "categories.delete", http.MethodDelete, idPath("/categories/%d", id), nil, nil, nil)
}

// ListGraphQL fetches every category through the GraphQL endpoint.
func (s *CategoriesService) ListGraphQL(ctx context.Context) ([]Category, error) {
	var items []Category
	if err := s.c.GraphQL.Query(ctx, allCategoriesQuery, nil, "allCategories", &items); err != nil {
		return nil, err
	}
	return items, nil
}
