package domain

import "time"

type PricingType string

const (
	PricingSingle  PricingType = "single"
	PricingVariant PricingType = "variant"
	PricingCombo   PricingType = "combo"
)

// Variant keys a variant-priced item may populate.
var VariantKeys = []string{"quarter", "half", "full"}

type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountPercentage DiscountKind = "percentage"
	DiscountFlat       DiscountKind = "flat"
)

type Discount struct {
	Kind   DiscountKind `json:"type"`
	Value  float64      `json:"value"`
	Active bool         `json:"active"`
}

var NoDiscount = Discount{Kind: DiscountNone}

// DiscountInput is a discount as clients send it. Every field is loosely typed.
type DiscountInput struct {
	Type   any `json:"type"`
	Value  any `json:"value"`
	Active any `json:"active"`
}

type VariantRate struct {
	Price    *float64 `json:"price"`
	Discount Discount `json:"discount"`
}

type ComboComponent struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Variant    string `json:"variant,omitempty"`
	Quantity   int    `json:"quantity"`
}

type MenuItem struct {
	ID           int64                  `json:"id"`
	OwnerID      int64                  `json:"owner_id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	FoodType     string                 `json:"type,omitempty"`
	PricingType  PricingType            `json:"pricing_type"`
	Price        *float64               `json:"price"`
	Discount     *Discount              `json:"discount"`
	VariantRates map[string]VariantRate `json:"variant_rates"`
	ComboItems   []ComboComponent       `json:"combo_items"`
	ComboPrice   *float64               `json:"combo_price"`
	ImageURL     string                 `json:"image_url"`
	Available    bool                   `json:"available"`
	Deleted      bool                   `json:"-"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type VariantRateInput struct {
	Price    *float64       `json:"price"`
	Discount *DiscountInput `json:"discount"`
}

type MenuItemInput struct {
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	Category     string                      `json:"category"`
	FoodType     string                      `json:"type"`
	PricingType  string                      `json:"pricing_type"`
	Price        *float64                    `json:"price"`
	Discount     *DiscountInput              `json:"discount"`
	VariantRates map[string]VariantRateInput `json:"variant_rates"`
	ComboItems   []ComboComponent            `json:"combo_items"`
	ComboPrice   *float64                    `json:"combo_price"`
	Available    *bool                       `json:"available"`
}

// Food types accepted for MenuItem.FoodType.
var FoodTypes = []string{"veg", "non-veg", "mixed"}
