// Package pricing computes order totals from a cart snapshot. It is pure:
// given the same items, coupon and config it always produces the same
// snapshot, and it never mutates the cart.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/loja-storefront/internal/cart"
)

// Config names the deployment's pricing rules. Two rule sets were shipped
// at different times; which one is live is a deployment decision, so both
// are exposed as named configs instead of hard-coding either.
type Config struct {
	// CouponCode is the single recognized coupon, compared
	// case-insensitively after trimming.
	CouponCode string
	// DiscountRate is the fraction of the subtotal taken off when the
	// coupon is valid, e.g. 0.15 for 15%.
	DiscountRate decimal.Decimal
	// ShippingFee is a flat fee applied whenever the cart is non-empty.
	// Zero means free shipping.
	ShippingFee decimal.Decimal
}

// Promo15 is the storefront rule set: coupon "corinthians", 15% off,
// free shipping.
var Promo15 = Config{
	CouponCode:   "corinthians",
	DiscountRate: decimal.RequireFromString("0.15"),
	ShippingFee:  decimal.Zero,
}

// Promo10 is the earlier rule set: coupon "NIKE10", 10% off, flat
// R$15.90 shipping.
var Promo10 = Config{
	CouponCode:   "NIKE10",
	DiscountRate: decimal.RequireFromString("0.10"),
	ShippingFee:  decimal.RequireFromString("15.90"),
}

// Default returns the rule set currently in production.
func Default() Config {
	return Promo15
}

// Coupon is the result of evaluating a coupon code. An invalid code is a
// signal for the UI, never an error: the cart is left untouched and the
// discount is simply zero.
type Coupon struct {
	Code  string
	Valid bool
	Rate  decimal.Decimal
}

// EvaluateCoupon normalizes the code (trim, case-fold) and checks it
// against the configured coupon.
func (c Config) EvaluateCoupon(code string) Coupon {
	normalized := strings.TrimSpace(code)
	if normalized != "" && strings.EqualFold(normalized, c.CouponCode) {
		return Coupon{Code: c.CouponCode, Valid: true, Rate: c.DiscountRate}
	}
	return Coupon{Code: normalized, Valid: false, Rate: decimal.Zero}
}

// Snapshot is the derived pricing of a cart. It is recomputed on every
// query and never stored. Values are kept at full precision; rounding
// happens only at presentation time.
type Snapshot struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Coupon      Coupon
}

// Quote prices the given items under the config's rules.
//
//	total = subtotal + shipping - discount
//	discount = coupon valid ? subtotal * rate : 0
//	shipping = 0 when the cart is empty
func (c Config) Quote(items []cart.LineItem, couponCode string) Snapshot {
	subtotal := decimal.Zero
	for _, li := range items {
		subtotal = subtotal.Add(li.Subtotal())
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = c.ShippingFee
	}

	coupon := c.EvaluateCoupon(couponCode)
	discount := decimal.Zero
	if coupon.Valid {
		discount = subtotal.Mul(coupon.Rate)
	}

	return Snapshot{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Discount:    discount,
		Total:       subtotal.Add(shipping).Sub(discount),
		Coupon:      coupon,
	}
}

// Rounded returns the snapshot with every amount rounded to 2 decimal
// places for display. The total is additionally floored at zero so a
// negative amount is never shown to the user.
func (s Snapshot) Rounded() Snapshot {
	out := s
	out.Subtotal = s.Subtotal.Round(2)
	out.ShippingFee = s.ShippingFee.Round(2)
	out.Discount = s.Discount.Round(2)
	out.Total = s.Total.Round(2)
	if out.Total.IsNegative() {
		out.Total = decimal.Zero
	}
	return out
}
