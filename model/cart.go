package models

// Product is the catalog view of a product as served by GET /products/{id}.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the available quantity for a product at lookup time.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// LineItem is one product in the cart. Product fields are copied from the
// catalog on first add; Amount is the only field the cart changes.
type LineItem struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

// NewLineItem builds a LineItem for p with the given amount.
func NewLineItem(p Product, amount int) LineItem {
	return LineItem{
		ID:     p.ID,
		Title:  p.Title,
		Price:  p.Price,
		Image:  p.Image,
		Amount: amount,
	}
}

// WithAmount returns a copy of the item with a new amount.
func (li LineItem) WithAmount(amount int) LineItem {
	li.Amount = amount
	return li
}
