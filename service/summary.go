package service

import (
	"github.com/shopspring/decimal"

	models "storefront-cart/model"
)

// Summary is a read-only view over a cart, used by the cart listing.
type Summary struct {
	Items   int             `json:"items"`
	Amounts map[int64]int   `json:"amounts"`
	Lines   []LineSummary   `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

type LineSummary struct {
	ProductID int64           `json:"product_id"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summarize computes per-line subtotals and the cart total. Items is the number
// of distinct products, not the sum of amounts.
func Summarize(cart []models.LineItem) Summary {
	s := Summary{
		Items:   len(cart),
		Amounts: make(map[int64]int, len(cart)),
		Lines:   make([]LineSummary, 0, len(cart)),
		Total:   decimal.Zero,
	}
	for _, li := range cart {
		sub := decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Amount)))
		s.Amounts[li.ID] = li.Amount
		s.Lines = append(s.Lines, LineSummary{ProductID: li.ID, Subtotal: sub})
		s.Total = s.Total.Add(sub)
	}
	return s
}
