package domain

// Pizza is a catalog item. Orders embed snapshots of chosen items, so
// catalog edits never touch historical orders.
type Pizza struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
}
