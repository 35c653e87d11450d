package pricing

import (
	"fmt"
	"strings"

	"tablebite/restaurant-svc/internal/domain"
)

// Resolution is the base price of a menu item and the discount that applies to it.
type Resolution struct {
	Price    float64
	Discount domain.Discount
	// Variant is the matched variant key, empty for single and combo items.
	Variant string
}

// ResolvePrice picks the base price and discount for item. variant is only
// consulted for variant-priced items and is matched case-insensitively.
func ResolvePrice(item domain.MenuItem, variant string) (Resolution, error) {
	switch item.PricingType {
	case domain.PricingSingle:
		if item.Price == nil || *item.Price < 0 {
			return Resolution{}, fmt.Errorf("%w: item %d has no price", ErrInvalidMenuItem, item.ID)
		}
		d := domain.NoDiscount
		if item.Discount != nil {
			d = *item.Discount
		}
		return Resolution{Price: *item.Price, Discount: d}, nil

	case domain.PricingVariant:
		if len(item.VariantRates) == 0 {
			return Resolution{}, fmt.Errorf("%w: item %d has no variants", ErrInvalidMenuItem, item.ID)
		}
		key := strings.ToLower(strings.TrimSpace(variant))
		if key == "" {
			return Resolution{}, fmt.Errorf("%w: item %d requires a variant", ErrVariantNotFound, item.ID)
		}
		for k, rate := range item.VariantRates {
			if !strings.EqualFold(k, key) || rate.Price == nil {
				continue
			}
			if *rate.Price < 0 {
				return Resolution{}, fmt.Errorf("%w: item %d variant %q has a negative price", ErrInvalidMenuItem, item.ID, key)
			}
			return Resolution{Price: *rate.Price, Discount: rate.Discount, Variant: key}, nil
		}
		return Resolution{}, fmt.Errorf("%w: item %d variant %q", ErrVariantNotFound, item.ID, variant)

	case domain.PricingCombo:
		if item.ComboPrice == nil || *item.ComboPrice < 0 {
			return Resolution{}, fmt.Errorf("%w: item %d has no combo price", ErrInvalidMenuItem, item.ID)
		}
		return Resolution{Price: *item.ComboPrice, Discount: domain.NoDiscount}, nil
	}

	return Resolution{}, fmt.Errorf("%w: item %d has pricing type %q", ErrInvalidMenuItem, item.ID, item.PricingType)
}
