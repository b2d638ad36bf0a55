package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// PizzaRepository defines catalog persistence.
type PizzaRepository interface {
	Create(ctx context.Context, p *domain.Pizza) error
	List(ctx context.Context) ([]*domain.Pizza, error)
	Update(ctx context.Context, p *domain.Pizza) (*domain.Pizza, error)
	Delete(ctx context.Context, id string) error
}
