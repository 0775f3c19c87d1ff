package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the account role reported by the server. Unknown values are
// preserved as-is.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleVendor   Role = "VENDOR"
	RoleCustomer Role = "CUSTOMER"
)

// Normalize upper-cases and trims r so comparisons are case-insensitive.
func (r Role) Normalize() Role {
	return Role(strings.ToUpper(strings.TrimSpace(string(r))))
}

// Known reports whether r is one of the three defined roles.
func (r Role) Known() bool {
	switch r.Normalize() {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// Dashboard names the landing area for r. Unknown roles land on the
// customer dashboard.
func (r Role) Dashboard() string {
	switch r.Normalize() {
	case RoleAdmin:
		return "admin"
	case RoleVendor:
		return "vendor"
	default:
		return "customer"
	}
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Normalize() OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// Timestamp accepts both RFC 3339 and the server's zone-less local date-time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Token     string `json:"token"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// FullName prefers the server's display name and falls back to first + last.
func (u *User) FullName() string {
	if u.Name != "" {
		return u.Name
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp `json:"updatedAt,omitzero"`
}

type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	CategoryName string  `json:"categoryName"`
}

type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"totalPrice"`
}

type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	UserName    string      `json:"userName"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
	CreatedAt   Timestamp   `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp   `json:"updatedAt,omitzero"`
}

type InventoryItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

type Review struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	UserID      int64     `json:"userId"`
	UserName    string    `json:"userName"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   Timestamp `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp `json:"updatedAt,omitzero"`
}

type CartItem struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductPrice float64   `json:"productPrice"`
	Quantity     int       `json:"quantity"`
	TotalPrice   float64   `json:"totalPrice"`
	CreatedAt    Timestamp `json:"createdAt,omitzero"`
	UpdatedAt    Timestamp `json:"updatedAt,omitzero"`
}

type Cart struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	TotalItems  int        `json:"totalItems"`
	CreatedAt   Timestamp  `json:"createdAt,omitzero"`
	UpdatedAt   Timestamp  `json:"updatedAt,omitzero"`
}

// Request types. Validation tags mirror the server-side constraints so
// obviously invalid input is rejected before a round trip. Login and
// registration carry none: the server's rejection message is what the
// user sees.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Role      Role   `json:"role,omitempty"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type CategoryUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	CategoryID  int64   `json:"categoryId" validate:"required"`
	SKU         string  `json:"sku,omitempty"`
	Price       float64 `json:"price" validate:"gt=0"`
}

type ProductUpdate struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	CategoryID  *int64   `json:"categoryId,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

type OrderItemInput struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

type CreateOrderRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

type InventoryInput struct {
	ProductID int64  `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	Location  string `json:"location" validate:"required"`
}

type InventoryUpdate struct {
	Quantity *int   `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Location string `json:"location,omitempty"`
}

type ReviewInput struct {
	ProductID int64  `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment,omitempty"`
}

type ReviewUpdate struct {
	Rating  *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

type CartItemInput struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"min=1"`
}

type CartItemUpdate struct {
	Quantity int `json:"quantity" validate:"min=1"`
}
