package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tablebite/restaurant-svc/internal/domain"
	"tablebite/restaurant-svc/internal/mocks"
	"tablebite/restaurant-svc/internal/service"
)

func TestMenuService_Create(t *testing.T) {
	halfFull := domain.MenuItem{
		ID:          5,
		Name:        "Biryani",
		PricingType: domain.PricingVariant,
		VariantRates: map[string]domain.VariantRate{
			"half": {Price: ptr(120.0), Discount: domain.NoDiscount},
			"full": {Price: ptr(200.0), Discount: domain.NoDiscount},
		},
	}

	tests := []struct {
		name    string
		in      domain.MenuItemInput
		setup   func(m *mocks.MenuRepository)
		check   func(t *testing.T, item *domain.MenuItem)
		field   string
		wantErr bool
	}{
		{
			name: "single with percentage discount",
			in: domain.MenuItemInput{
				Name:     " Paneer Tikka ",
				FoodType: "Veg",
				Price:    ptr(100.0),
				Discount: &domain.DiscountInput{Type: "percentage", Value: 10.0, Active: "true"},
			},
			check: func(t *testing.T, item *domain.MenuItem) {
				assert.Equal(t, "Paneer Tikka", item.Name)
				assert.Equal(t, "veg", item.FoodType)
				assert.Equal(t, domain.PricingSingle, item.PricingType)
				assert.Equal(t, &domain.Discount{Kind: domain.DiscountPercentage, Value: 10, Active: true}, item.Discount)
				assert.True(t, item.Available)
			},
		},
		{
			name: "inactive discount collapses",
			in: domain.MenuItemInput{
				Name:      "Lassi",
				Price:     ptr(30.0),
				Discount:  &domain.DiscountInput{Type: "flat", Value: 5.0, Active: false},
				Available: ptr(false),
			},
			check: func(t *testing.T, item *domain.MenuItem) {
				assert.Equal(t, &domain.NoDiscount, item.Discount)
				assert.False(t, item.Available)
			},
		},
		{
			name: "variant skips empty prices",
			in: domain.MenuItemInput{
				Name:        "Biryani",
				PricingType: "variant",
				VariantRates: map[string]domain.VariantRateInput{
					"Half":    {Price: ptr(120.0)},
					"full":    {Price: ptr(200.0), Discount: &domain.DiscountInput{Type: "flat", Value: 20.0, Active: true}},
					"quarter": {},
				},
			},
			check: func(t *testing.T, item *domain.MenuItem) {
				assert.Len(t, item.VariantRates, 2)
				assert.Nil(t, item.Price)
				assert.Equal(t, 20.0, item.VariantRates["full"].Discount.Value)
			},
		},
		{
			name: "combo snapshots component names",
			in: domain.MenuItemInput{
				Name:        "Family Pack",
				PricingType: "combo",
				ComboPrice:  ptr(450.0),
				ComboItems:  []domain.ComboComponent{{MenuItemID: 5, Variant: "FULL", Quantity: 0}},
			},
			setup: func(m *mocks.MenuRepository) {
				m.On("FindMenuItemsByIDs", mock.Anything, int64(7), []int64{5}, false).Return([]domain.MenuItem{halfFull}, nil).Once()
			},
			check: func(t *testing.T, item *domain.MenuItem) {
				require.Len(t, item.ComboItems, 1)
				assert.Equal(t, domain.ComboComponent{MenuItemID: 5, Name: "Biryani", Variant: "full", Quantity: 1}, item.ComboItems[0])
				assert.Nil(t, item.Discount)
			},
		},
		{
			name:  "missing name",
			in:    domain.MenuItemInput{Price: ptr(10.0)},
			field: "name",
		},
		{
			name:  "single without price",
			in:    domain.MenuItemInput{Name: "Tea"},
			field: "price",
		},
		{
			name:  "negative price",
			in:    domain.MenuItemInput{Name: "Tea", Price: ptr(-1.0)},
			field: "price",
		},
		{
			name:  "unknown food type",
			in:    domain.MenuItemInput{Name: "Tea", FoodType: "vegan", Price: ptr(10.0)},
			field: "type",
		},
		{
			name:  "unknown pricing type",
			in:    domain.MenuItemInput{Name: "Tea", PricingType: "tiered"},
			field: "pricing_type",
		},
		{
			name: "unknown variant key",
			in: domain.MenuItemInput{Name: "Tea", PricingType: "variant",
				VariantRates: map[string]domain.VariantRateInput{"large": {Price: ptr(10.0)}}},
			field: "variant_rates",
		},
		{
			name:  "variant without any price",
			in:    domain.MenuItemInput{Name: "Tea", PricingType: "variant", VariantRates: map[string]domain.VariantRateInput{"half": {}}},
			field: "variant_rates",
		},
		{
			name: "combo with unknown variant",
			in: domain.MenuItemInput{Name: "Pack", PricingType: "combo", ComboPrice: ptr(100.0),
				ComboItems: []domain.ComboComponent{{MenuItemID: 5, Variant: "quarter"}}},
			setup: func(m *mocks.MenuRepository) {
				m.On("FindMenuItemsByIDs", mock.Anything, int64(7), []int64{5}, false).Return([]domain.MenuItem{halfFull}, nil).Once()
			},
			field: "combo_items[0].variant",
		},
		{
			name: "combo with missing component",
			in: domain.MenuItemInput{Name: "Pack", PricingType: "combo", ComboPrice: ptr(100.0),
				ComboItems: []domain.ComboComponent{{MenuItemID: 9}}},
			setup: func(m *mocks.MenuRepository) {
				m.On("FindMenuItemsByIDs", mock.Anything, int64(7), []int64{9}, false).Return(nil, nil).Once()
			},
			field: "combo_items[0].menu_item_id",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.MenuRepository)
			svc := service.NewMenuService(repo)
			if testCase.setup != nil {
				testCase.setup(repo)
			}
			if testCase.check != nil {
				repo.On("CreateMenuItem", mock.Anything, mock.AnythingOfType("*domain.MenuItem")).Return(nil).Once()
			}

			item, err := svc.Create(context.Background(), 7, testCase.in)

			if testCase.field != "" {
				var ve domain.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, testCase.field, ve.Field)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), item.OwnerID)
				testCase.check(t, item)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_Update(t *testing.T) {
	t.Run("keeps image and availability", func(t *testing.T) {
		repo := new(mocks.MenuRepository)
		svc := service.NewMenuService(repo)
		current := singleItem(1, "Tea", 10, nil)
		current.ImageURL = "/uploads/tea.png"
		current.Available = false

		repo.On("GetMenuItem", mock.Anything, int64(7), int64(1)).Return(&current, nil).Once()
		repo.On("UpdateMenuItem", mock.Anything, mock.MatchedBy(func(it *domain.MenuItem) bool {
			return it.ID == 1 && it.ImageURL == "/uploads/tea.png" && !it.Available && *it.Price == 12
		})).Return(nil).Once()

		_, err := svc.Update(context.Background(), 7, 1, domain.MenuItemInput{Name: "Tea", Price: ptr(12.0)})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("combo cannot contain itself", func(t *testing.T) {
		repo := new(mocks.MenuRepository)
		svc := service.NewMenuService(repo)
		self := domain.MenuItem{ID: 4, Name: "Pack", PricingType: domain.PricingCombo, ComboPrice: ptr(99.0)}

		repo.On("GetMenuItem", mock.Anything, int64(7), int64(4)).Return(&self, nil).Once()
		repo.On("FindMenuItemsByIDs", mock.Anything, int64(7), []int64{4}, false).Return([]domain.MenuItem{self}, nil).Once()

		_, err := svc.Update(context.Background(), 7, 4, domain.MenuItemInput{
			Name: "Pack", PricingType: "combo", ComboPrice: ptr(99.0),
			ComboItems: []domain.ComboComponent{{MenuItemID: 4}},
		})

		var ve domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "combo_items", ve.Field)
		repo.AssertExpectations(t)
	})
}

func TestMenuService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		dbErr   error
		wantErr error
	}{
		{name: "deleted", rows: 1},
		{name: "missing", rows: 0, wantErr: domain.ErrNotFound},
		{name: "database error", dbErr: assert.AnError, wantErr: assert.AnError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.MenuRepository)
			svc := service.NewMenuService(repo)
			repo.On("SoftDeleteMenuItem", mock.Anything, int64(7), int64(1)).Return(testCase.rows, testCase.dbErr).Once()

			err := svc.Delete(context.Background(), 7, 1)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_PublicMenuOnlyAvailable(t *testing.T) {
	repo := new(mocks.MenuRepository)
	svc := service.NewMenuService(repo)
	repo.On("ListMenuItems", mock.Anything, int64(7), true).Return([]domain.MenuItem{singleItem(1, "Tea", 10, nil)}, nil).Once()

	items, err := svc.PublicMenu(context.Background(), testTenant)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}
