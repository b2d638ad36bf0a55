package ports

import (
	"context"

	"github.com/mipipizza/order-system/internal/core/domain"
)

// AuthService implements registration, login, and token introspection.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	// Login returns a signed bearer token and the authenticated user. Wrong
	// password and unknown email produce the same error so the response does
	// not reveal which field was wrong.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Me resolves the user behind a validated token's subject.
	Me(ctx context.Context, userID string) (*domain.User, error)
}
