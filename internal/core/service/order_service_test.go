package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mipipizza/order-system/internal/core/domain"
	"github.com/mipipizza/order-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	orders    map[string]*domain.Order
	nextID    int
	deleteErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.nextID++
	o.ID = string(rune('a' + r.nextID - 1))
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) FindActiveByUser(_ context.Context, userID string) (*domain.Order, error) {
	for _, o := range r.orders {
		if o.UserID == userID && o.Status != domain.StatusDelivered && o.Status != domain.StatusCanceled {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type stubArchiveRepo struct {
	completed map[string]*domain.ArchivedOrder // keyed by source order id
	canceled  map[string]*domain.ArchivedOrder
}

func newStubArchiveRepo() *stubArchiveRepo {
	return &stubArchiveRepo{
		completed: make(map[string]*domain.ArchivedOrder),
		canceled:  make(map[string]*domain.ArchivedOrder),
	}
}

func (r *stubArchiveRepo) UpsertCompleted(_ context.Context, a *domain.ArchivedOrder) error {
	clone := *a
	r.completed[a.OrderID] = &clone
	return nil
}

func (r *stubArchiveRepo) UpsertCanceled(_ context.Context, a *domain.ArchivedOrder) error {
	clone := *a
	r.canceled[a.OrderID] = &clone
	return nil
}

func (r *stubArchiveRepo) ListCompleted(_ context.Context) ([]*domain.ArchivedOrder, error) {
	var out []*domain.ArchivedOrder
	for _, a := range r.completed {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubArchiveRepo) ListCanceled(_ context.Context) ([]*domain.ArchivedOrder, error) {
	var out []*domain.ArchivedOrder
	for _, a := range r.canceled {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubArchiveRepo) SalesSummary(_ context.Context) (float64, int64, error) {
	var total float64
	for _, a := range r.completed {
		total += a.Total
	}
	return total, int64(len(r.completed)), nil
}

// stubNotifier records every emitted event in order.
type stubNotifier struct {
	events []string
	orders []*domain.Order
}

func (n *stubNotifier) OrderCreated(o *domain.Order) { n.record("newOrder", o) }
func (n *stubNotifier) OrderUpdated(o *domain.Order) { n.record("orderUpdated", o) }
func (n *stubNotifier) OrderDeleted(o *domain.Order) { n.record("orderDeleted", o) }

func (n *stubNotifier) record(event string, o *domain.Order) {
	n.events = append(n.events, event)
	n.orders = append(n.orders, o)
}

type stubSalesCache struct {
	invalidated int
}

func (c *stubSalesCache) Get(_ context.Context) (*domain.SalesReport, error)  { return nil, nil }
func (c *stubSalesCache) Set(_ context.Context, _ *domain.SalesReport) error  { return nil }
func (c *stubSalesCache) Invalidate(_ context.Context) error                  { c.invalidated++; return nil }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestService() (*OrderService, *stubOrderRepo, *stubArchiveRepo, *stubNotifier, *stubSalesCache) {
	orders := newStubOrderRepo()
	archive := newStubArchiveRepo()
	notifier := &stubNotifier{}
	cache := &stubSalesCache{}
	svc := NewOrderService(orders, archive, notifier, cache, discardLogger)
	return svc, orders, archive, notifier, cache
}

func validInput(userID string) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		CustomerName:  "Laura",
		Address:       "Av. Central 42",
		Phone:         "5512345678",
		PaymentMethod: "cash",
		UserID:        userID,
		CartItems: []ports.CartItemInput{
			{Name: "Pepperoni", Size: "large", Price: 10, Quantity: 2},
			{Name: "Margherita", Size: "medium", Price: 5, Quantity: 1},
		},
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderService_Create_ComputesTotalServerSide(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), validInput("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Total != 25 {
		t.Errorf("expected total 25, got %v", order.Total)
	}
	if order.Status != domain.StatusPreparing {
		t.Errorf("expected status Preparing, got %s", order.Status)
	}
	if order.ID == "" {
		t.Error("expected generated id")
	}
}

func TestOrderService_Create_DerivesItemFields(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	input := validInput("u1")
	input.CartItems = []ports.CartItemInput{
		{Name: "Custom", Size: "large", Price: 12, Quantity: 1, Ingredients: []string{"ham", "corn"}},
		{Name: "Pepperoni", Size: "small", Price: 8, Quantity: 1},
	}

	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !order.CartItems[0].IsCustom {
		t.Error("item with ingredients must be custom")
	}
	if order.CartItems[1].IsCustom {
		t.Error("item without ingredients must not be custom")
	}
	if order.CartItems[0].Sauce != domain.DefaultSauce {
		t.Errorf("expected default sauce, got %q", order.CartItems[0].Sauce)
	}
}

func TestOrderService_Create_RejectsMissingFields(t *testing.T) {
	svc, _, _, notifier, _ := newTestService()

	cases := map[string]func(*ports.CreateOrderInput){
		"customer name": func(in *ports.CreateOrderInput) { in.CustomerName = "" },
		"address":       func(in *ports.CreateOrderInput) { in.Address = "" },
		"phone":         func(in *ports.CreateOrderInput) { in.Phone = "" },
		"payment":       func(in *ports.CreateOrderInput) { in.PaymentMethod = "card" },
		"empty cart":    func(in *ports.CreateOrderInput) { in.CartItems = nil },
	}

	for name, mutate := range cases {
		input := validInput("u1")
		mutate(&input)
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
	if len(notifier.events) != 0 {
		t.Errorf("no events must fire for rejected input, got %v", notifier.events)
	}
}

func TestOrderService_Create_EmitsNewOrderEvent(t *testing.T) {
	svc, _, _, notifier, _ := newTestService()

	order, _ := svc.Create(context.Background(), validInput("u1"))

	if len(notifier.events) != 1 || notifier.events[0] != "newOrder" {
		t.Fatalf("expected one newOrder event, got %v", notifier.events)
	}
	if notifier.orders[0].ID != order.ID {
		t.Error("event payload must be the persisted order")
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	svc, _, _, notifier, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	updated, err := svc.UpdateStatus(context.Background(), order.ID, "InTransit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusInTransit {
		t.Errorf("expected InTransit, got %s", updated.Status)
	}

	if len(notifier.events) != 2 || notifier.events[1] != "orderUpdated" {
		t.Fatalf("expected orderUpdated event, got %v", notifier.events)
	}
	if notifier.orders[1].Status != domain.StatusInTransit {
		t.Error("event payload must carry the post-mutation status")
	}
}

func TestOrderService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	if _, err := svc.UpdateStatus(context.Background(), order.ID, "Burned"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.UpdateStatus(context.Background(), "missing", "Delivered"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// MarkPaid / Cancel
// ---------------------------------------------------------------------------

func TestOrderService_MarkPaid_MovesOrderToCompleted(t *testing.T) {
	svc, orders, archive, notifier, cache := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	archived, err := svc.MarkPaid(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := orders.orders[order.ID]; ok {
		t.Error("order must leave the active collection")
	}
	if len(archive.completed) != 1 {
		t.Fatalf("expected exactly one completed record, got %d", len(archive.completed))
	}
	if archived.CompletedAt == nil || archived.CompletedAt.IsZero() {
		t.Error("completedAt must be stamped")
	}
	if archived.Total != 25 {
		t.Errorf("archived total must match, got %v", archived.Total)
	}
	if cache.invalidated != 1 {
		t.Errorf("sales cache must be invalidated once, got %d", cache.invalidated)
	}
	if notifier.events[len(notifier.events)-1] != "orderDeleted" {
		t.Errorf("expected orderDeleted on archive, got %v", notifier.events)
	}
}

func TestOrderService_MarkPaid_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.MarkPaid(context.Background(), "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_MarkPaid_DeleteFailureSurfaces(t *testing.T) {
	svc, orders, archive, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	orders.deleteErr = errors.New("write concern timeout")
	if _, err := svc.MarkPaid(context.Background(), order.ID); err == nil {
		t.Fatal("expected error when the active delete fails")
	}

	// The copy survived; a retry re-upserts the same document and deletes.
	if len(archive.completed) != 1 {
		t.Fatalf("expected completed copy to remain, got %d", len(archive.completed))
	}
	orders.deleteErr = nil
	if _, err := svc.MarkPaid(context.Background(), order.ID); err != nil {
		t.Fatalf("retry must succeed: %v", err)
	}
	if len(archive.completed) != 1 {
		t.Fatalf("retry must not duplicate the archive record, got %d", len(archive.completed))
	}
}

func TestOrderService_Cancel_StampsActor(t *testing.T) {
	svc, orders, archive, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	archived, err := svc.Cancel(context.Background(), order.ID, domain.CanceledByAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if archived.CanceledBy != domain.CanceledByAdmin {
		t.Errorf("expected canceledBy=admin, got %s", archived.CanceledBy)
	}
	if archived.CanceledAt == nil {
		t.Error("canceledAt must be stamped")
	}
	if archived.Status != domain.StatusCanceled {
		t.Errorf("archived status must be Canceled, got %s", archived.Status)
	}
	if _, ok := orders.orders[order.ID]; ok {
		t.Error("order must leave the active collection")
	}
	if len(archive.canceled) != 1 {
		t.Fatalf("expected exactly one canceled record, got %d", len(archive.canceled))
	}
}

// ---------------------------------------------------------------------------
// Active order / ownership
// ---------------------------------------------------------------------------

func TestOrderService_ActiveOrderFor_NoOrders(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	res, err := svc.ActiveOrderFor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("no active order must not be an error: %v", err)
	}
	if res.HasActiveOrder || res.Order != nil {
		t.Error("expected hasActiveOrder=false")
	}
}

func TestOrderService_ActiveOrderFor_DeliveredIsNotActive(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))
	if _, err := svc.UpdateStatus(context.Background(), order.ID, "Delivered"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, _ := svc.ActiveOrderFor(context.Background(), "u1")
	if res.HasActiveOrder {
		t.Error("delivered order must not count as active")
	}
}

func TestOrderService_ActiveOrderFor_CanceledInPlaceIsNotActive(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))
	if _, err := svc.CancelOwn(context.Background(), order.ID, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.ActiveOrderFor(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasActiveOrder {
		t.Error("order canceled in place must not count as active")
	}
}

func TestOrderService_ActiveOrderFor_ReturnsOrder(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	res, _ := svc.ActiveOrderFor(context.Background(), "u1")
	if !res.HasActiveOrder || res.Order == nil || res.Order.ID != order.ID {
		t.Fatalf("expected the active order, got %+v", res)
	}
}

func TestOrderService_Delete_RejectsNonOwner(t *testing.T) {
	svc, orders, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	if _, err := svc.Delete(context.Background(), order.ID, "intruder"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("non-owner delete must look like not-found, got %v", err)
	}
	if _, ok := orders.orders[order.ID]; !ok {
		t.Error("order must still be active")
	}
}

func TestOrderService_Delete_ArchivesAsCustomerCancel(t *testing.T) {
	svc, orders, archive, notifier, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	if _, err := svc.Delete(context.Background(), order.ID, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := orders.orders[order.ID]; ok {
		t.Error("order must leave the active collection")
	}
	archived := archive.canceled[order.ID]
	if archived == nil || archived.CanceledBy != domain.CanceledByCustomer {
		t.Fatalf("expected canceled archive stamped by customer, got %+v", archived)
	}
	if notifier.events[len(notifier.events)-1] != "orderDeleted" {
		t.Errorf("expected orderDeleted event, got %v", notifier.events)
	}
}

func TestOrderService_CancelOwn_SetsStatusInPlace(t *testing.T) {
	svc, orders, _, notifier, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	updated, err := svc.CancelOwn(context.Background(), order.ID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusCanceled {
		t.Errorf("expected Canceled, got %s", updated.Status)
	}
	if _, ok := orders.orders[order.ID]; !ok {
		t.Error("in-place cancel must keep the order active")
	}
	if notifier.events[len(notifier.events)-1] != "orderUpdated" {
		t.Errorf("expected orderUpdated event, got %v", notifier.events)
	}
}

func TestOrderService_CancelOwn_RejectsNonOwner(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	order, _ := svc.Create(context.Background(), validInput("u1"))

	if _, err := svc.CancelOwn(context.Background(), order.ID, "u2"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
