package notify

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mipipizza/order-system/internal/core/domain"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:            "o1",
		CustomerName:  "Laura",
		Address:       "Av. Central 42",
		Phone:         "5512345678",
		PaymentMethod: "cash",
		Total:         25,
		Status:        domain.StatusPreparing,
		UserID:        "u1",
	}
}

func TestHub_EmitFrameShape(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)

	h.OrderCreated(testOrder())

	frame := <-h.broadcast
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("frame must be valid json: %v", err)
	}
	if env.Event != EventNewOrder {
		t.Errorf("expected event %q, got %q", EventNewOrder, env.Event)
	}

	var order domain.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("payload must decode into an order: %v", err)
	}
	if order.ID != "o1" || order.Total != 25 {
		t.Errorf("payload must be the full order, got %+v", order)
	}
}

func TestHub_EmitNeverBlocks(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)

	// Nobody drains the broadcast channel; once the buffer is full the
	// remaining events must be dropped, not block the caller.
	for i := 0; i < broadcastBuf+10; i++ {
		h.OrderUpdated(testOrder())
	}

	if got := len(h.broadcast); got != broadcastBuf {
		t.Fatalf("expected buffer capped at %d, got %d", broadcastBuf, got)
	}
}

func TestHub_RegisterUnregisterCount(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	counts := make(chan int, 4)
	h.OnClientCountChange = func(n int) { counts <- n }
	go h.Run()

	c := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- c
	if n := <-counts; n != 1 {
		t.Fatalf("expected 1 subscriber after register, got %d", n)
	}

	h.unregister <- c
	if n := <-counts; n != 0 {
		t.Fatalf("expected 0 subscribers after unregister, got %d", n)
	}
}

func TestHub_BroadcastReachesEverySubscriber(t *testing.T) {
	h := NewHub(zerolog.Nop(), nil)
	go h.Run()

	a := &client{hub: h, send: make(chan []byte, 1)}
	b := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- a
	h.register <- b

	h.OrderDeleted(testOrder())

	for _, c := range []*client{a, b} {
		frame := <-c.send
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		if env.Event != EventOrderDeleted {
			t.Errorf("expected orderDeleted, got %q", env.Event)
		}
	}
}
