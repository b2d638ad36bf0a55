package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated actor. Cart maps catalog item ids to
// quantities. PasswordHash is never serialized.
type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role"`
	Cart         map[string]int `json:"cart"`
	CreatedAt    time.Time      `json:"createdAt"`
}
