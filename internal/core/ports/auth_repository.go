package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts and their carts.
type UserRepository interface {
	// Create inserts the user. Returns domain.ErrUserExists on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update patches email and/or role; empty fields are left unchanged.
	Update(ctx context.Context, id, email, role string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// ReplaceCart overwrites the user's cart mapping.
	ReplaceCart(ctx context.Context, id string, cart map[string]int) (*domain.User, error)
}
