package client

import (
	"context"
	"net/http"
)

type OrdersService struct {
	c *Client
}

func (s *OrdersService) Create(ctx context.Context, in CreateOrderRequest) (*Order, error) {
	const op = "orders.create"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Order](ctx, s.c, op, http.MethodPost, "/orders/create", nil, in)
}

// ListAll lists every order. CategoryID is ignored by the server.
func (s *OrdersService) ListAll(ctx context.Context, opts *ListOptions) (*Page[Order], error) {
	return list[Order](ctx, s.c, "orders.list_all", "/orders/all", opts.Query(), opts.size())
}

// ListMine lists the orders of the authenticated user.
func (s *OrdersService) ListMine(ctx context.Context, page, size int) (*Page[Order], error) {
	return list[Order](ctx, s.c, "orders.list_mine", "/orders/user", pageQuery(page, size), size)
}

func (s *OrdersService) Get(ctx context.Context, id int64) (*Order, error) {
	return call[Order](ctx, s.c, "orders.get", http.MethodGet, idPath("/orders/%d", id), nil, nil)
}

func (s *OrdersService) UpdateStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error) {
	const op = "orders.update_status"
	in := UpdateOrderStatusRequest{Status: status.Normalize()}
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Order](ctx, s.c, op, http.MethodPut, idPath("/orders/update/%d", id), nil, in)
}

func (s *OrdersService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "orders.delete", http.MethodDelete, idPath("/orders/%d", id), nil, nil, nil)
}
