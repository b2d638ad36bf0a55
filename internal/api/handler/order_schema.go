package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// cartItemRequest is one order line. Any client-supplied total is ignored;
// the server recomputes it from price and quantity.
type cartItemRequest struct {
	Name        string   `json:"name"     validate:"required"`
	Size        string   `json:"size"     validate:"required"`
	Price       float64  `json:"price"    validate:"required,gt=0"`
	Quantity    int      `json:"quantity" validate:"required,min=1"`
	Ingredients []string `json:"ingredients"`
	Sauce       string   `json:"sauce"`
}

type createOrderRequest struct {
	CustomerName  string            `json:"customerName"  validate:"required"`
	Address       string            `json:"address"       validate:"required"`
	References    string            `json:"references"`
	Phone         string            `json:"phone"         validate:"required"`
	PaymentMethod string            `json:"paymentMethod" validate:"required,oneof=cash transfer"`
	CartItems     []cartItemRequest `json:"cartItems"     validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
