package main

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/mipipizza/order-system/internal/infrastructure/db/mongo"
)

// ensureIndexes creates the collection indexes at startup so a fresh
// database is ready before the first request.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewOrderRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewArchiveRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewUserRepository(db).EnsureIndexes(ctx)
}

// originChecker restricts websocket upgrades to the configured origins.
// Requests without an Origin header (curl, native clients) are allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
