package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mipipizza/order-system/internal/core/domain"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = string(rune('0' + r.nextID))
	r.byEmail[clone.Email] = &clone
	r.byID[clone.ID] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Update(_ context.Context, id, email, role string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if email != "" {
		u.Email = email
	}
	if role != "" {
		u.Role = role
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

func (r *stubUserRepo) ReplaceCart(_ context.Context, id string, cart map[string]int) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Cart = cart
	clone := *u
	return &clone, nil
}

const testSecret = "test-secret"

func newTestAuthService() (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewAuthService(repo, testSecret, time.Hour), repo
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, repo := newTestAuthService()

	user, err := svc.Register(context.Background(), "Ana", "ana@example.com", "secret1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != domain.RoleUser {
		t.Errorf("expected default role user, got %s", user.Role)
	}
	stored := repo.byEmail["ana@example.com"]
	if stored.PasswordHash == "secret1" {
		t.Fatal("password must never be stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) != nil {
		t.Error("stored hash must verify against the original password")
	}
	if user.Cart == nil || len(user.Cart) != 0 {
		t.Error("cart must start empty")
	}
}

func TestAuthService_Register_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "secret1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Ana II", "ana@example.com", "secret2", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_ValidatesInput(t *testing.T) {
	svc, _ := newTestAuthService()

	cases := []struct {
		name, email, password, role string
	}{
		{"", "a@example.com", "secret1", ""},
		{"Ana", "not-an-email", "secret1", ""},
		{"Ana", "a@example.com", "short", ""},
		{"Ana", "a@example.com", "secret1", "superuser"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password, tc.role); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("register(%q,%q,%q,%q): expected ErrValidation, got %v", tc.name, tc.email, tc.password, tc.role, err)
		}
	}
}

func TestAuthService_Register_AcceptsLongTLDs(t *testing.T) {
	svc, _ := newTestAuthService()

	for _, email := range []string{"ana@example.info", "ana@team.example.dev", "ana@example.restaurant"} {
		if _, err := svc.Register(context.Background(), "Ana", email, "secret1", ""); err != nil {
			t.Errorf("register(%q): unexpected error: %v", email, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newTestAuthService()
	registered, _ := svc.Register(context.Background(), "Ana", "ana@example.com", "secret1", domain.RoleAdmin)

	token, user, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != registered.ID {
		t.Error("login must return the registered user")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must parse: %v", err)
	}
	if claims["sub"] != registered.ID || claims["role"] != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_UniformError(t *testing.T) {
	svc, _ := newTestAuthService()
	_, _ = svc.Register(context.Background(), "Ana", "ana@example.com", "secret1", "")

	_, _, wrongPass := svc.Login(context.Background(), "ana@example.com", "wrong")
	_, _, unknown := svc.Login(context.Background(), "nobody@example.com", "secret1")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Error("responses must not reveal which field was wrong")
	}
}
