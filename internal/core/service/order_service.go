package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

// OrderService implements the order lifecycle: creation, status transitions,
// and the archival moves between the active, completed, and canceled
// collections.
type OrderService struct {
	orders   ports.OrderRepository
	archive  ports.ArchiveRepository
	notifier ports.OrderNotifier
	cache    ports.SalesCache
	logger   zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	archive ports.ArchiveRepository,
	notifier ports.OrderNotifier,
	cache ports.SalesCache,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		archive:  archive,
		notifier: notifier,
		cache:    cache,
		logger:   logger,
	}
}

// Create validates the input, recomputes the total server-side, derives
// per-item fields, and persists the order with status Preparing.
func (s *OrderService) Create(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		CustomerName:  input.CustomerName,
		Address:       input.Address,
		References:    input.References,
		Phone:         input.Phone,
		PaymentMethod: input.PaymentMethod,
		Status:        domain.StatusPreparing,
		UserID:        input.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var total float64
	for _, item := range input.CartItems {
		line := domain.CartItem{
			Name:        item.Name,
			Size:        item.Size,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Ingredients: item.Ingredients,
			Sauce:       item.Sauce,
			IsCustom:    len(item.Ingredients) > 0,
		}
		if line.Sauce == "" {
			line.Sauce = domain.DefaultSauce
		}
		total += line.Price * float64(line.Quantity)
		order.CartItems = append(order.CartItems, line)
	}
	// The client-supplied total is never trusted.
	order.Total = total

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Float64("total", order.Total).
		Msg("order created")

	s.notifier.OrderCreated(order)
	return order, nil
}

func validateCreateInput(input ports.CreateOrderInput) error {
	switch {
	case input.CustomerName == "":
		return fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	case input.Address == "":
		return fmt.Errorf("%w: address is required", domain.ErrValidation)
	case input.Phone == "":
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	case input.PaymentMethod != "cash" && input.PaymentMethod != "transfer":
		return fmt.Errorf("%w: payment method must be cash or transfer", domain.ErrValidation)
	case len(input.CartItems) == 0:
		return fmt.Errorf("%w: cart cannot be empty", domain.ErrValidation)
	}
	for i, item := range input.CartItems {
		if item.Name == "" || item.Quantity < 1 {
			return fmt.Errorf("%w: cart item %d is invalid", domain.ErrValidation, i)
		}
	}
	return nil
}

// UpdateStatus overwrites the order status. Membership in the allowed set is
// the only restriction; no transition ordering is enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status string) (*domain.Order, error) {
	newStatus := domain.OrderStatus(status)
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("status", status).Msg("order status updated")
	s.notifier.OrderUpdated(order)
	return order, nil
}

// MarkPaid archives the order into the completed collection and removes it
// from the active collection. The copy is an upsert keyed by the source order
// id, so retrying after a crash between the two writes cannot duplicate the
// archive record.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	archived := &domain.ArchivedOrder{
		Order:       *order,
		OrderID:     order.ID,
		CompletedAt: &now,
	}

	if err := s.archive.UpsertCompleted(ctx, archived); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to archive completed order")
		return nil, fmt.Errorf("archive completed: %w", err)
	}
	if err := s.removeArchived(ctx, orderID); err != nil {
		return nil, err
	}
	s.invalidateSalesCache(ctx)

	s.logger.Info().Str("order_id", orderID).Float64("total", order.Total).Msg("order marked as paid")
	s.notifier.OrderDeleted(order)
	return archived, nil
}

// Cancel archives the order into the canceled collection, stamping when and
// by whom it was canceled, and removes it from the active collection.
func (s *OrderService) Cancel(ctx context.Context, orderID string, by domain.CancelActor) (*domain.ArchivedOrder, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	archived, err := s.archiveCanceled(ctx, order, by)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("canceled_by", string(by)).Msg("order canceled")
	s.notifier.OrderDeleted(order)
	return archived, nil
}

func (s *OrderService) archiveCanceled(ctx context.Context, order *domain.Order, by domain.CancelActor) (*domain.ArchivedOrder, error) {
	now := time.Now().UTC()
	archived := &domain.ArchivedOrder{
		Order:      *order,
		OrderID:    order.ID,
		CanceledAt: &now,
		CanceledBy: by,
	}
	archived.Status = domain.StatusCanceled

	if err := s.archive.UpsertCanceled(ctx, archived); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to archive canceled order")
		return nil, fmt.Errorf("archive canceled: %w", err)
	}
	if err := s.removeArchived(ctx, order.ID); err != nil {
		return nil, err
	}
	return archived, nil
}

// removeArchived deletes the active record after a successful archive copy.
// A failure here leaves the order in both collections until the operation is
// retried, which re-upserts the same archive document and deletes again.
func (s *OrderService) removeArchived(ctx context.Context, orderID string) error {
	if err := s.orders.Delete(ctx, orderID); err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		s.logger.Error().Err(err).
			Str("order_id", orderID).
			Msg("archive delete failed; reconciliation required")
		return fmt.Errorf("archive delete: %w", err)
	}
	return nil
}

func (s *OrderService) invalidateSalesCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate sales cache")
	}
}

// CancelOwn sets the owner's order status to Canceled in place. The order
// stays in the active collection until staff archive it.
func (s *OrderService) CancelOwn(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Not revealing whether the order exists to non-owners.
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, domain.StatusCanceled)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("user_id", userID).Msg("order canceled by customer")
	s.notifier.OrderUpdated(updated)
	return updated, nil
}

// ActiveOrderFor reports the user's single undelivered order, if any.
// Having no active order is a normal outcome, not an error.
func (s *OrderService) ActiveOrderFor(ctx context.Context, userID string) (*ports.ActiveOrderResult, error) {
	order, err := s.orders.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return &ports.ActiveOrderResult{HasActiveOrder: false}, nil
		}
		return nil, err
	}
	return &ports.ActiveOrderResult{HasActiveOrder: true, Order: order}, nil
}

// Delete is the owner-scoped removal. The order is archived as canceled by
// the customer rather than hard-deleted.
func (s *OrderService) Delete(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	if _, err := s.archiveCanceled(ctx, order, domain.CanceledByCustomer); err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("user_id", userID).Msg("order deleted")
	s.notifier.OrderDeleted(order)
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}
