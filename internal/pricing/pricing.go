// Package pricing holds the booking price arithmetic and coupon validation.
// Everything here is synchronous and side-effect free apart from the coupon
// lookup, so it stays testable without the HTTP layer.
package pricing

// Total is the undiscounted price for a party: unit price times party size.
func Total(unitPrice float64, people int) float64 {
	return unitPrice * float64(people)
}

// Quote is a computed booking price. Discount is a percentage in [0,100];
// DiscountedTotal equals Total when the discount is zero.
type Quote struct {
	Total           float64 `json:"total"`
	DiscountedTotal float64 `json:"discounted_total"`
	Discount        float64 `json:"discount"`
}

func NewQuote(unitPrice float64, people int, discount float64) Quote {
	total := Total(unitPrice, people)
	return Quote{
		Total:           total,
		DiscountedTotal: total - total*discount/100,
		Discount:        discount,
	}
}
