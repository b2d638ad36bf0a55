package domain

import "time"

// OrderStatus represents the lifecycle state of an active order.
type OrderStatus string

const (
	StatusPreparing OrderStatus = "Preparing"
	StatusInTransit OrderStatus = "InTransit"
	StatusDelivered OrderStatus = "Delivered"
	StatusCanceled  OrderStatus = "Canceled"
)

// Valid reports whether s is a member of the allowed status set. No
// transition graph is enforced: any allowed status may overwrite any other,
// matching the behavior the dashboards rely on.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPreparing, StatusInTransit, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// CancelActor identifies who initiated a cancellation.
type CancelActor string

const (
	CanceledByAdmin    CancelActor = "admin"
	CanceledByCustomer CancelActor = "customer"
)

// DefaultSauce is applied to cart items that do not specify one.
const DefaultSauce = "Tomato Sauce"

// CartItem is a denormalized snapshot of a catalog item at order time.
// Catalog edits never retroactively change placed orders.
type CartItem struct {
	Name        string   `json:"name"`
	Size        string   `json:"size"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Ingredients []string `json:"ingredients,omitempty"`
	Sauce       string   `json:"sauce"`
	IsCustom    bool     `json:"isCustom"`
}

// Order is an active order. Exactly one of the orders, completed_orders, or
// canceled_orders collections holds the authoritative record for a given
// order at any time; Order covers the active collection only.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	Address       string      `json:"address"`
	References    string      `json:"references,omitempty"`
	Phone         string      `json:"phone"`
	PaymentMethod string      `json:"paymentMethod"`
	Total         float64     `json:"total"`
	CartItems     []CartItem  `json:"cartItems"`
	Status        OrderStatus `json:"status"`
	UserID        string      `json:"userId"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ArchivedOrder is an order that left the active collection, either as
// completed (paid/delivered) or canceled. Archived records are immutable.
// OrderID keeps the id the order had while active and is the idempotency
// key for the archive write.
type ArchivedOrder struct {
	Order
	OrderID     string      `json:"orderId"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	CanceledAt  *time.Time  `json:"canceledAt,omitempty"`
	CanceledBy  CancelActor `json:"canceledBy,omitempty"`
}

// SalesReport is the read-only summary over completed orders.
type SalesReport struct {
	TotalSales float64          `json:"totalSales"`
	Count      int64            `json:"count"`
	Orders     []*ArchivedOrder `json:"orders"`
}
