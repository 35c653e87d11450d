package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tablebite/restaurant-svc/internal/domain"
)

func TestNormalizeDiscount(t *testing.T) {
	tests := []struct {
		name  string
		input *domain.DiscountInput
		want  domain.Discount
	}{
		{
			name:  "absent",
			input: nil,
			want:  domain.Discount{Kind: domain.DiscountNone},
		},
		{
			name:  "inactive keeps nothing",
			input: &domain.DiscountInput{Type: "flat", Value: 20.0, Active: false},
			want:  domain.Discount{Kind: domain.DiscountNone},
		},
		{
			name:  "missing active flag",
			input: &domain.DiscountInput{Type: "flat", Value: 20.0},
			want:  domain.Discount{Kind: domain.DiscountNone},
		},
		{
			name:  "percentage",
			input: &domain.DiscountInput{Type: "percentage", Value: 15.0, Active: true},
			want:  domain.Discount{Kind: domain.DiscountPercentage, Value: 15, Active: true},
		},
		{
			name:  "numeric string value",
			input: &domain.DiscountInput{Type: "flat", Value: " 12.5 ", Active: "true"},
			want:  domain.Discount{Kind: domain.DiscountFlat, Value: 12.5, Active: true},
		},
		{
			name:  "json number value",
			input: &domain.DiscountInput{Type: "flat", Value: json.Number("7"), Active: 1.0},
			want:  domain.Discount{Kind: domain.DiscountFlat, Value: 7, Active: true},
		},
		{
			name:  "unknown kind",
			input: &domain.DiscountInput{Type: "bogo", Value: 10.0, Active: true},
			want:  domain.Discount{Kind: domain.DiscountNone, Value: 10, Active: true},
		},
		{
			name:  "kind is case sensitive",
			input: &domain.DiscountInput{Type: "Percentage", Value: 10.0, Active: true},
			want:  domain.Discount{Kind: domain.DiscountNone, Value: 10, Active: true},
		},
		{
			name:  "negative value",
			input: &domain.DiscountInput{Type: "flat", Value: -5.0, Active: true},
			want:  domain.Discount{Kind: domain.DiscountFlat, Value: 0, Active: true},
		},
		{
			name:  "non numeric value",
			input: &domain.DiscountInput{Type: "percentage", Value: "ten", Active: true},
			want:  domain.Discount{Kind: domain.DiscountPercentage, Value: 0, Active: true},
		},
		{
			name:  "NaN value",
			input: &domain.DiscountInput{Type: "flat", Value: math.NaN(), Active: true},
			want:  domain.Discount{Kind: domain.DiscountFlat, Value: 0, Active: true},
		},
		{
			name:  "string false is not active",
			input: &domain.DiscountInput{Type: "flat", Value: 5.0, Active: "false"},
			want:  domain.Discount{Kind: domain.DiscountNone},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, NormalizeDiscount(testCase.input))
		})
	}
}

func TestNormalizeDiscountAbsentIsInactiveZero(t *testing.T) {
	d := NormalizeDiscount(nil)
	assert.False(t, d.Active)
	assert.Zero(t, d.Value)
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		discount domain.Discount
		want     float64
	}{
		{name: "none", base: 100, discount: domain.NoDiscount, want: 100},
		{name: "inactive percentage", base: 100, discount: domain.Discount{Kind: domain.DiscountPercentage, Value: 50}, want: 100},
		{name: "percentage", base: 100, discount: domain.Discount{Kind: domain.DiscountPercentage, Value: 25, Active: true}, want: 75},
		{name: "percentage over 100 clamps", base: 100, discount: domain.Discount{Kind: domain.DiscountPercentage, Value: 150, Active: true}, want: 0},
		{name: "flat", base: 100, discount: domain.Discount{Kind: domain.DiscountFlat, Value: 20, Active: true}, want: 80},
		{name: "flat over base clamps", base: 15, discount: domain.Discount{Kind: domain.DiscountFlat, Value: 20, Active: true}, want: 0},
		{name: "percentage of fractional price", base: 99.99, discount: domain.Discount{Kind: domain.DiscountPercentage, Value: 10, Active: true}, want: 89.991},
		{name: "active none kind", base: 40, discount: domain.Discount{Kind: domain.DiscountNone, Value: 10, Active: true}, want: 40},
		{name: "zero base", base: 0, discount: domain.Discount{Kind: domain.DiscountFlat, Value: 10, Active: true}, want: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, DiscountedPrice(testCase.base, testCase.discount))
		})
	}
}

func TestDiscountedPriceBounds(t *testing.T) {
	bases := []float64{0, 0.01, 1, 9.99, 50, 99.95, 100, 1234.56}
	discounts := []domain.Discount{
		domain.NoDiscount,
		{Kind: domain.DiscountPercentage, Value: 0, Active: true},
		{Kind: domain.DiscountPercentage, Value: 33.3, Active: true},
		{Kind: domain.DiscountPercentage, Value: 100, Active: true},
		{Kind: domain.DiscountPercentage, Value: 250, Active: true},
		{Kind: domain.DiscountFlat, Value: 0.5, Active: true},
		{Kind: domain.DiscountFlat, Value: 75, Active: true},
		{Kind: domain.DiscountFlat, Value: 5000, Active: true},
	}

	for _, base := range bases {
		for _, d := range discounts {
			got := DiscountedPrice(base, d)
			assert.LessOrEqual(t, got, base, "base %v discount %+v", base, d)
			assert.GreaterOrEqual(t, got, 0.0, "base %v discount %+v", base, d)
		}
	}
}

func TestNormalizedOverHundredPercentClampsToZero(t *testing.T) {
	d := NormalizeDiscount(&domain.DiscountInput{Type: "percentage", Value: 150, Active: true})
	assert.Equal(t, 0.0, DiscountedPrice(100, d))
}
