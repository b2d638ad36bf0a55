package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// OrderRepository defines persistence operations for the active orders
// collection.
type OrderRepository interface {
	// Create inserts the order and fills in its generated id.
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// FindActiveByUser returns the user's single order whose status is not
	// Delivered. Returns domain.ErrOrderNotFound when there is none.
	FindActiveByUser(ctx context.Context, userID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus overwrites the status and returns the updated order.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// ArchiveRepository covers the completed and canceled collections. The
// upserts are keyed by the source order id so a retried archive after a
// partial failure cannot duplicate the record.
type ArchiveRepository interface {
	UpsertCompleted(ctx context.Context, a *domain.ArchivedOrder) error
	UpsertCanceled(ctx context.Context, a *domain.ArchivedOrder) error
	// ListCompleted returns archived orders sorted by completion time descending.
	ListCompleted(ctx context.Context) ([]*domain.ArchivedOrder, error)
	ListCanceled(ctx context.Context) ([]*domain.ArchivedOrder, error)
	// SalesSummary folds total revenue and count over the completed collection.
	SalesSummary(ctx context.Context) (total float64, count int64, err error)
}
