package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// SalesCache is a best-effort cache for the sales summary. Failures are
// logged and the caller falls back to the repository.
type SalesCache interface {
	Get(ctx context.Context) (*domain.SalesReport, error)
	Set(ctx context.Context, report *domain.SalesReport) error
	Invalidate(ctx context.Context) error
}

// SalesService is the read-only reporting surface over archived orders.
type SalesService interface {
	Summary(ctx context.Context) (*domain.SalesReport, error)
	CanceledOrders(ctx context.Context) ([]*domain.ArchivedOrder, error)
}
