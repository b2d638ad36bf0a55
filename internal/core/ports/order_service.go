package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// CartItemInput is one line item as submitted by the client. The price is
// the unit price snapshotted from the catalog by the frontend; the order
// total is always recomputed server-side from these lines.
type CartItemInput struct {
	Name        string
	Size        string
	Price       float64
	Quantity    int
	Ingredients []string
	Sauce       string
}

// CreateOrderInput carries all data needed to place an order.
type CreateOrderInput struct {
	CustomerName  string
	Address       string
	References    string
	Phone         string
	PaymentMethod string
	CartItems     []CartItemInput
	UserID        string
}

// ActiveOrderResult distinguishes "no active order" from an error: a user
// with no undelivered order is a normal outcome.
type ActiveOrderResult struct {
	HasActiveOrder bool
	Order          *domain.Order
}

// OrderService defines the order lifecycle use cases.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error)
	// MarkPaid archives the order into the completed collection and removes
	// it from the active collection.
	MarkPaid(ctx context.Context, orderID string) (*domain.ArchivedOrder, error)
	// Cancel archives the order into the canceled collection, stamping who
	// initiated the cancellation.
	Cancel(ctx context.Context, orderID string, by domain.CancelActor) (*domain.ArchivedOrder, error)
	// CancelOwn sets the owner's order status to Canceled in place.
	CancelOwn(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ActiveOrderFor(ctx context.Context, userID string) (*ActiveOrderResult, error)
	// Delete is the owner-scoped removal: the order is archived as canceled
	// by the customer, not hard-deleted.
	Delete(ctx context.Context, orderID, userID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}

// OrderNotifier broadcasts lifecycle events to connected dashboards.
// Delivery is best-effort and must never block or fail the caller.
type OrderNotifier interface {
	OrderCreated(o *domain.Order)
	OrderUpdated(o *domain.Order)
	OrderDeleted(o *domain.Order)
}
