package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tablebite/restaurant-svc/internal/domain"
)

// Computation is a fully priced order, ready to be persisted.
type Computation struct {
	Lines          []domain.OrderLine
	OrderType      domain.OrderType
	TableID        string
	Address        string
	Subtotal       float64
	TaxRate        float64
	TaxAmount      float64
	DeliveryCharge float64
	Total          float64
}

// ComputeOrder prices every requested line against items and applies the
// restaurant's tax and delivery settings. Any failing line fails the whole order.
func ComputeOrder(settings domain.PricingSettings, req domain.OrderRequest, items map[int64]domain.MenuItem) (*Computation, error) {
	tableID, address, err := destination(req)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, domain.Invalid("items", "order must contain at least one item")
	}

	subtotal := decimal.Zero
	lines := make([]domain.OrderLine, 0, len(req.Items))

	for i, lr := range req.Items {
		item, ok := items[lr.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("items[%d]: %w: id %d", i, ErrMenuItemNotFound, lr.MenuItemID)
		}

		res, err := ResolvePrice(item, lr.Variant)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		discounted := DiscountedPrice(res.Price, res.Discount)
		qty := lr.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(discounted).Mul(decimal.NewFromInt(int64(qty))))

		var customizations []string
		if len(lr.Customizations) > 0 {
			customizations = append(customizations, lr.Customizations...)
		}

		lines = append(lines, domain.OrderLine{
			MenuItemID:      item.ID,
			Name:            item.Name,
			Variant:         res.Variant,
			Quantity:        qty,
			BasePrice:       res.Price,
			DiscountedPrice: discounted,
			DiscountApplied: res.Discount,
			Customizations:  customizations,
		})
	}

	if subtotal.IsNegative() {
		return nil, fmt.Errorf("%w: negative subtotal %s", ErrInvariantViolation, subtotal)
	}

	rate := decimal.Zero
	tax := decimal.Zero
	if settings.TaxEnabled {
		if settings.TaxRate < 0 || settings.TaxRate > 100 {
			return nil, fmt.Errorf("%w: tax rate %v out of range", ErrInvariantViolation, settings.TaxRate)
		}
		rate = decimal.NewFromFloat(settings.TaxRate)
		tax = subtotal.Mul(rate).Div(hundred)
	}

	delivery := decimal.Zero
	if req.OrderType == domain.OrderDelivery {
		if settings.DeliveryCharge < 0 {
			return nil, fmt.Errorf("%w: negative delivery charge %v", ErrInvariantViolation, settings.DeliveryCharge)
		}
		delivery = decimal.NewFromFloat(settings.DeliveryCharge)
	}

	total := subtotal.Add(tax).Add(delivery)

	return &Computation{
		Lines:          lines,
		OrderType:      req.OrderType,
		TableID:        tableID,
		Address:        address,
		Subtotal:       subtotal.InexactFloat64(),
		TaxRate:        rate.InexactFloat64(),
		TaxAmount:      tax.InexactFloat64(),
		DeliveryCharge: delivery.InexactFloat64(),
		Total:          total.InexactFloat64(),
	}, nil
}

// destination enforces that exactly the field the order type needs is kept.
func destination(req domain.OrderRequest) (tableID, address string, err error) {
	tableID = strings.TrimSpace(req.TableID)
	address = strings.TrimSpace(req.Address)

	switch req.OrderType {
	case domain.OrderEatHere:
		if tableID == "" {
			return "", "", domain.Invalid("table_id", "table is required for EatHere orders")
		}
		return tableID, "", nil
	case domain.OrderDelivery:
		if address == "" {
			return "", "", domain.Invalid("address", "address is required for Delivery orders")
		}
		return "", address, nil
	case domain.OrderTakeAway:
		return "", "", nil
	case "":
		return "", "", domain.Invalid("order_type", "order type is required")
	}
	return "", "", domain.Invalid("order_type", fmt.Sprintf("unknown order type %q", req.OrderType))
}
