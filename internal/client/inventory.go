package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type InventoryService struct {
	c *Client
}

func (s *InventoryService) Add(ctx context.Context, in InventoryInput) (*InventoryItem, error) {
	const op = "inventory.add"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[InventoryItem](ctx, s.c, op, http.MethodPost, "/inventory/add", nil, in)
}

func (s *InventoryService) List(ctx context.Context, page, size int) (*Page[InventoryItem], error) {
	return list[InventoryItem](ctx, s.c, "inventory.list", "/inventory/all", pageQuery(page, size), size)
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*InventoryItem, error) {
	return call[InventoryItem](ctx, s.c, "inventory.get", http.MethodGet, idPath("/inventory/%d", id), nil, nil)
}

func (s *InventoryService) GetByProduct(ctx context.Context, productID int64) (*InventoryItem, error) {
	return call[InventoryItem](ctx, s.c, "inventory.get_by_product", http.MethodGet, idPath("/inventory/product/%d", productID), nil, nil)
}

func (s *InventoryService) Update(ctx context.Context, id int64, in InventoryUpdate) (*InventoryItem, error) {
	const op = "inventory.update"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[InventoryItem](ctx, s.c, op, http.MethodPut, idPath("/inventory/update/%d", id), nil, in)
}

// AdjustQuantity adds delta (which may be negative) to the stock level.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id int64, delta int) (*InventoryItem, error) {
	q := url.Values{}
	q.Set("quantityChange", strconv.Itoa(delta))
	return call[InventoryItem](ctx, s.c, "inventory.adjust", http.MethodPatch, idPath("/inventory/adjust/%d", id), q, nil)
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "inventory.delete", http.MethodDelete, idPath("/inventory/%d", id), nil, nil, nil)
}
