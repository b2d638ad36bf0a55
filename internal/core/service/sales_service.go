package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

// SalesService computes the read-only sales report over the completed
// archive. The summary is cached with a short TTL; cache failures fall back
// to the repository.
type SalesService struct {
	archive ports.ArchiveRepository
	cache   ports.SalesCache
	logger  zerolog.Logger
}

func NewSalesService(archive ports.ArchiveRepository, cache ports.SalesCache, logger zerolog.Logger) *SalesService {
	return &SalesService{archive: archive, cache: cache, logger: logger}
}

func (s *SalesService) Summary(ctx context.Context) (*domain.SalesReport, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("sales cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	total, count, err := s.archive.SalesSummary(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.archive.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.SalesReport{TotalSales: total, Count: count, Orders: orders}

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.logger.Warn().Err(err).Msg("sales cache write failed")
		}
	}
	return report, nil
}

func (s *SalesService) CanceledOrders(ctx context.Context) ([]*domain.ArchivedOrder, error) {
	return s.archive.ListCanceled(ctx)
}
