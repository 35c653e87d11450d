package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"tablebite/restaurant-svc/internal/domain"
	"tablebite/restaurant-svc/internal/pricing"
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) PublicMenu(ctx context.Context, tenant domain.Tenant) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, tenant.OwnerID, true)
}

func (s *MenuService) List(ctx context.Context, ownerID int64) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, ownerID, false)
}

func (s *MenuService) Create(ctx context.Context, ownerID int64, in domain.MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	item.Available = true
	if in.Available != nil {
		item.Available = *in.Available
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, ownerID, id int64, in domain.MenuItemInput) (*domain.MenuItem, error) {
	current, err := s.repo.GetMenuItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	item, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	for _, c := range item.ComboItems {
		if c.MenuItemID == id {
			return nil, domain.Invalid("combo_items", "a combo cannot contain itself")
		}
	}

	item.ID = current.ID
	item.ImageURL = current.ImageURL
	item.Available = current.Available
	if in.Available != nil {
		item.Available = *in.Available
	}
	item.CreatedAt = current.CreatedAt

	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, ownerID, id int64) error {
	rows, err := s.repo.SoftDeleteMenuItem(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	return nil
}

func (s *MenuService) ToggleAvailability(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error) {
	return s.repo.ToggleMenuItemAvailability(ctx, ownerID, id)
}

func (s *MenuService) UpdateImage(ctx context.Context, ownerID, id int64, imageURL string) error {
	rows, err := s.repo.UpdateMenuItemImage(ctx, ownerID, id, imageURL)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	return nil
}

// build validates in and returns an item with exactly one pricing shape set.
func (s *MenuService) build(ctx context.Context, ownerID int64, in domain.MenuItemInput) (*domain.MenuItem, error) {
	item := &domain.MenuItem{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		FoodType:    strings.ToLower(strings.TrimSpace(in.FoodType)),
		PricingType: domain.PricingType(strings.ToLower(strings.TrimSpace(in.PricingType))),
	}
	if item.Name == "" {
		return nil, domain.Invalid("name", "name is required")
	}
	if item.FoodType != "" && !slices.Contains(domain.FoodTypes, item.FoodType) {
		return nil, domain.Invalid("type", "type must be one of veg, non-veg, mixed")
	}
	if item.PricingType == "" {
		item.PricingType = domain.PricingSingle
	}

	switch item.PricingType {
	case domain.PricingSingle:
		if in.Price == nil {
			return nil, domain.Invalid("price", "price is required for single pricing")
		}
		if *in.Price < 0 {
			return nil, domain.Invalid("price", "price must be non-negative")
		}
		price := *in.Price
		d := pricing.NormalizeDiscount(in.Discount)
		item.Price = &price
		item.Discount = &d

	case domain.PricingVariant:
		rates, err := buildVariantRates(in.VariantRates)
		if err != nil {
			return nil, err
		}
		item.VariantRates = rates

	case domain.PricingCombo:
		if in.ComboPrice == nil {
			return nil, domain.Invalid("combo_price", "combo price is required for combo pricing")
		}
		if *in.ComboPrice < 0 {
			return nil, domain.Invalid("combo_price", "combo price must be non-negative")
		}
		components, err := s.buildCombo(ctx, ownerID, in.ComboItems)
		if err != nil {
			return nil, err
		}
		comboPrice := *in.ComboPrice
		item.ComboPrice = &comboPrice
		item.ComboItems = components

	default:
		return nil, domain.Invalid("pricing_type", "pricing type must be one of single, variant, combo")
	}

	return item, nil
}

func buildVariantRates(in map[string]domain.VariantRateInput) (map[string]domain.VariantRate, error) {
	rates := make(map[string]domain.VariantRate, len(in))
	for rawKey, rate := range in {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if !slices.Contains(domain.VariantKeys, key) {
			return nil, domain.Invalid("variant_rates", fmt.Sprintf("unknown variant %q, expected quarter, half or full", rawKey))
		}
		if rate.Price == nil {
			continue
		}
		if *rate.Price < 0 {
			return nil, domain.Invalid("variant_rates."+key, "price must be non-negative")
		}
		if _, dup := rates[key]; dup {
			return nil, domain.Invalid("variant_rates", fmt.Sprintf("variant %q given twice", key))
		}
		price := *rate.Price
		rates[key] = domain.VariantRate{Price: &price, Discount: pricing.NormalizeDiscount(rate.Discount)}
	}
	if len(rates) == 0 {
		return nil, domain.Invalid("variant_rates", "at least one variant price is required")
	}
	return rates, nil
}

// buildCombo checks every component against the menu and snapshots its name.
func (s *MenuService) buildCombo(ctx context.Context, ownerID int64, in []domain.ComboComponent) ([]domain.ComboComponent, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("combo_items", "a combo needs at least one item")
	}

	ids := make([]int64, 0, len(in))
	for i, c := range in {
		if c.MenuItemID <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("combo_items[%d].menu_item_id", i), "menu item id is required")
		}
		if !slices.Contains(ids, c.MenuItemID) {
			ids = append(ids, c.MenuItemID)
		}
	}

	found, err := s.repo.FindMenuItemsByIDs(ctx, ownerID, ids, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.MenuItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	out := make([]domain.ComboComponent, 0, len(in))
	for i, c := range in {
		field := fmt.Sprintf("combo_items[%d]", i)
		ref, ok := byID[c.MenuItemID]
		if !ok {
			return nil, domain.Invalid(field+".menu_item_id", fmt.Sprintf("menu item %d not found", c.MenuItemID))
		}

		variant := strings.ToLower(strings.TrimSpace(c.Variant))
		if ref.PricingType == domain.PricingVariant {
			res, err := pricing.ResolvePrice(ref, variant)
			if errors.Is(err, pricing.ErrVariantNotFound) {
				return nil, domain.Invalid(field+".variant", fmt.Sprintf("%s has no variant %q", ref.Name, c.Variant))
			}
			if err != nil {
				return nil, err
			}
			variant = res.Variant
		} else {
			variant = ""
		}

		qty := c.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, domain.ComboComponent{
			MenuItemID: ref.ID,
			Name:       ref.Name,
			Variant:    variant,
			Quantity:   qty,
		})
	}
	return out, nil
}

var _ MenuServiceInterface = (*MenuService)(nil)
