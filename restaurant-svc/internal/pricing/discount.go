// Package pricing turns menu items and order requests into priced order lines
// and totals. Everything here is pure: callers fetch the data and persist the
// result.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tablebite/restaurant-svc/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// NormalizeDiscount coerces a client supplied discount into its canonical form.
// It never fails: anything unrecognised degrades to no discount.
func NormalizeDiscount(raw *domain.DiscountInput) domain.Discount {
	if raw == nil || !truthy(raw.Active) {
		return domain.NoDiscount
	}

	kind := domain.DiscountNone
	if s, ok := raw.Type.(string); ok {
		switch k := domain.DiscountKind(s); k {
		case domain.DiscountPercentage, domain.DiscountFlat:
			kind = k
		}
	}

	value := toAmount(raw.Value)
	return domain.Discount{Kind: kind, Value: value, Active: value >= 0}
}

// DiscountedPrice applies d to base. The result is never negative and never
// exceeds base.
func DiscountedPrice(base float64, d domain.Discount) float64 {
	if !d.Active || d.Value <= 0 || math.IsNaN(d.Value) {
		return base
	}

	b := decimal.NewFromFloat(base)
	v := decimal.NewFromFloat(d.Value)

	var out decimal.Decimal
	switch d.Kind {
	case domain.DiscountPercentage:
		out = b.Sub(b.Mul(v).Div(hundred))
	case domain.DiscountFlat:
		out = b.Sub(v)
	default:
		return base
	}

	if out.IsNegative() {
		return 0
	}
	return out.InexactFloat64()
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes" || s == "on"
	case nil:
		return false
	default:
		n, ok := toNumber(v)
		return ok && n != 0
	}
}

// toAmount returns v as a finite non-negative number, or 0.
func toAmount(v any) float64 {
	n, ok := toNumber(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case int32:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
