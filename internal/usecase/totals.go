package usecase

import (
	"github.com/merchsys/storefront/internal/domain/model"
)

// ComputeTotals aggregates cart lines into an order monetary breakdown in
// integer minor currency units. The flat shipping fee applies only to
// non-empty subtotals.
func ComputeTotals(lines []model.CartLine, shippingFee int64) model.OrderTotals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPrice * int64(line.Quantity)
	}

	var shipping int64
	if subtotal > 0 {
		shipping = shippingFee
	}

	return model.OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
