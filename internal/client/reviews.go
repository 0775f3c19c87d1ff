package client

import (
	"context"
	"net/http"
)

type ReviewsService struct {
	c *Client
}

func (s *ReviewsService) Add(ctx context.Context, in ReviewInput) (*Review, error) {
	const op = "reviews.add"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Review](ctx, s.c, op, http.MethodPost, "/reviews", nil, in)
}

func (s *ReviewsService) List(ctx context.Context, page, size int) (*Page[Review], error) {
	return list[Review](ctx, s.c, "reviews.list", "/reviews", pageQuery(page, size), size)
}

func (s *ReviewsService) Get(ctx context.Context, id int64) (*Review, error) {
	return call[Review](ctx, s.c, "reviews.get", http.MethodGet, idPath("/reviews/%d", id), nil, nil)
}

func (s *ReviewsService) ListByProduct(ctx context.Context, productID int64, page, size int) (*Page[Review], error) {
	return list[Review](ctx, s.c, "reviews.list_by_product", idPath("/reviews/product/%d", productID), pageQuery(page, size), size)
}

// ListMine lists reviews written by the authenticated user.
func (s *ReviewsService) ListMine(ctx context.Context, page, size int) (*Page[Review], error) {
	return list[Review](ctx, s.c, "reviews.list_mine", "/reviews/user", pageQuery(page, size), size)
}

func (s *ReviewsService) Update(ctx context.Context, id int64, in ReviewUpdate) (*Review, error) {
	const op = "reviews.update"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Review](ctx, s.c, op, http.MethodPut, idPath("/reviews/%d", id), nil, in)
}

func (s *ReviewsService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "reviews.delete", http.MethodDelete, idPath("/reviews/%d", id), nil, nil, nil)
}
