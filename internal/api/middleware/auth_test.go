package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	assertUnauthorized(t, err)
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, err := runAuth(t, "Token abc.def.ghi")
	assertUnauthorized(t, err)
}

func TestAuth_TamperedSignature(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  "u1",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "u1",
		"role": "user",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestAuth_MissingSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	_, err := runAuth(t, "Bearer "+token)
	assertUnauthorized(t, err)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "u42",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := c.Get(ContextUserID).(string); got != "u42" {
		t.Errorf("expected user_id u42, got %q", got)
	}
	if got, _ := c.Get(ContextRole).(string); got != "admin" {
		t.Errorf("expected role admin, got %q", got)
	}
}
