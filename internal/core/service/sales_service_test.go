package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mipipizza/order-system/internal/core/domain"
)

type recordingSalesCache struct {
	stored *domain.SalesReport
	getErr error
	gets   int
	sets   int
}

func (c *recordingSalesCache) Get(_ context.Context) (*domain.SalesReport, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored, nil
}

func (c *recordingSalesCache) Set(_ context.Context, report *domain.SalesReport) error {
	c.sets++
	c.stored = report
	return nil
}

func (c *recordingSalesCache) Invalidate(_ context.Context) error {
	c.stored = nil
	return nil
}

func archivedOrder(id string, total float64, completedAt time.Time) *domain.ArchivedOrder {
	return &domain.ArchivedOrder{
		Order:       domain.Order{ID: id, Total: total, Status: domain.StatusDelivered},
		OrderID:     id,
		CompletedAt: &completedAt,
	}
}

func TestSalesService_Summary_FoldsCompletedOrders(t *testing.T) {
	archive := newStubArchiveRepo()
	now := time.Now().UTC()
	_ = archive.UpsertCompleted(context.Background(), archivedOrder("a", 25, now))
	_ = archive.UpsertCompleted(context.Background(), archivedOrder("b", 17.5, now))

	svc := NewSalesService(archive, &recordingSalesCache{}, discardLogger)

	report, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalSales != 42.5 {
		t.Errorf("expected totalSales 42.5, got %v", report.TotalSales)
	}
	if report.Count != 2 {
		t.Errorf("expected count 2, got %d", report.Count)
	}
	if len(report.Orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(report.Orders))
	}
}

func TestSalesService_Summary_UsesCacheWhenWarm(t *testing.T) {
	archive := newStubArchiveRepo()
	cache := &recordingSalesCache{stored: &domain.SalesReport{TotalSales: 99, Count: 3}}
	svc := NewSalesService(archive, cache, discardLogger)

	report, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalSales != 99 {
		t.Errorf("expected cached report, got %+v", report)
	}
	if cache.sets != 0 {
		t.Error("warm cache must not be rewritten")
	}
}

func TestSalesService_Summary_FallsBackOnCacheFailure(t *testing.T) {
	archive := newStubArchiveRepo()
	now := time.Now().UTC()
	_ = archive.UpsertCompleted(context.Background(), archivedOrder("a", 10, now))

	cache := &recordingSalesCache{getErr: errors.New("redis down")}
	svc := NewSalesService(archive, cache, discardLogger)

	report, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the report: %v", err)
	}
	if report.TotalSales != 10 || report.Count != 1 {
		t.Errorf("expected repository fallback, got %+v", report)
	}
}
