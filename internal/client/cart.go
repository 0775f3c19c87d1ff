package client

import (
	"context"
	"net/http"
)

// CartService operates on the authenticated user's cart.
type CartService struct {
	c *Client
}

func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	return call[Cart](ctx, s.c, "cart.get", http.MethodGet, "/cart", nil, nil)
}

func (s *CartService) AddItem(ctx context.Context, in CartItemInput) (*Cart, error) {
	const op = "cart.add_item"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Cart](ctx, s.c, op, http.MethodPost, "/cart/add", nil, in)
}

func (s *CartService) UpdateItem(ctx context.Context, itemID int64, quantity int) (*Cart, error) {
	const op = "cart.update_item"
	in := CartItemUpdate{Quantity: quantity}
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[Cart](ctx, s.c, op, http.MethodPut, idPath("/cart/item/%d", itemID), nil, in)
}

func (s *CartService) RemoveItem(ctx context.Context, itemID int64) (*Cart, error) {
	return call[Cart](ctx, s.c, "cart.remove_item", http.MethodDelete, idPath("/cart/item/%d", itemID), nil, nil)
}

func (s *CartService) Clear(ctx context.Context) error {
	return s.c.do(ctx, "cart.clear", http.MethodDelete, "/cart/clear", nil, nil, nil)
}

// Checkout places an order for the cart contents. The server answers with
// the cart as it stands after checkout.
func (s *CartService) Checkout(ctx context.Context) (*Cart, error) {
	return call[Cart](ctx, s.c, "cart.checkout", http.MethodPost, "/cart/checkout", nil, nil)
}
