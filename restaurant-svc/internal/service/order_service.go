package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tablebite/restaurant-svc/internal/domain"
	"tablebite/restaurant-svc/internal/pricing"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// Keeps (page-1)*limit well inside the OFFSET range Postgres accepts.
	maxPage = 100_000
)

type OrderService struct {
	orders      OrderRepository
	menu        MenuRepository
	restaurants RestaurantRepository
	idempotency IdempotencyGuard
	publisher   EventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewOrderService(orders OrderRepository, menu MenuRepository, restaurants RestaurantRepository,
	idempotency IdempotencyGuard, publisher EventPublisher, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orders:      orders,
		menu:        menu,
		restaurants: restaurants,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Place prices and stores a customer order for tenant. A non-empty
// idempotencyKey makes repeated submissions of the same order fail with
// ErrDuplicateSubmission instead of creating a second order.
func (s *OrderService) Place(ctx context.Context, tenant domain.Tenant, idempotencyKey string, req domain.OrderRequest) (*domain.Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	if name == "" {
		return nil, domain.Invalid("customer_name", "customer name is required")
	}
	if phone == "" {
		return nil, domain.Invalid("customer_phone", "customer phone is required")
	}

	rest, err := s.restaurants.GetRestaurant(ctx, tenant.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.IsOpen {
		return nil, domain.ErrRestaurantClosed
	}
	if req.OrderType.Valid() && !rest.Accepts(req.OrderType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderTypeDisabled, req.OrderType)
	}

	comp, err := s.compute(ctx, tenant.OwnerID, rest.PricingSettings(), req)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idempotency != nil {
		claimed, err := s.idempotency.Claim(ctx, tenant.OwnerID, key)
		if err != nil {
			return nil, fmt.Errorf("claim idempotency key: %w", err)
		}
		if !claimed {
			return nil, domain.ErrDuplicateSubmission
		}
	}

	order := &domain.Order{
		OwnerID:       tenant.OwnerID,
		CustomerName:  name,
		CustomerPhone: phone,
		Status:        domain.StatusPending,
	}
	apply(order, comp)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if key != "" && s.idempotency != nil {
			if rerr := s.idempotency.Release(ctx, tenant.OwnerID, key); rerr != nil {
				s.logger.WarnContext(ctx, "failed to release idempotency key", slog.String("error", rerr.Error()))
			}
		}
		return nil, err
	}

	s.publish(ctx, domain.NewOrderEvent(domain.EventOrderCreated, order, "", s.now()))
	return order, nil
}

// compute fetches the referenced menu items and prices req.
func (s *OrderService) compute(ctx context.Context, ownerID int64, settings domain.PricingSettings, req domain.OrderRequest) (*pricing.Computation, error) {
	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]struct{}, len(req.Items))
	for _, l := range req.Items {
		if _, ok := seen[l.MenuItemID]; ok {
			continue
		}
		seen[l.MenuItemID] = struct{}{}
		ids = append(ids, l.MenuItemID)
	}

	items := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) > 0 {
		found, err := s.menu.FindMenuItemsByIDs(ctx, ownerID, ids, true)
		if err != nil {
			return nil, err
		}
		for _, it := range found {
			items[it.ID] = it
		}
	}

	comp, err := pricing.ComputeOrder(settings, req, items)
	if errors.Is(err, pricing.ErrInvariantViolation) {
		s.logger.ErrorContext(ctx, "order pricing invariant violated",
			slog.Int64("owner_id", ownerID), slog.String("error", err.Error()))
	}
	return comp, err
}

func apply(order *domain.Order, comp *pricing.Computation) {
	order.Items = comp.Lines
	order.OrderType = comp.OrderType
	order.TableID = comp.TableID
	order.Address = comp.Address
	order.Subtotal = comp.Subtotal
	order.TaxRate = comp.TaxRate
	order.TaxAmount = comp.TaxAmount
	order.DeliveryCharge = comp.DeliveryCharge
	order.TotalAmount = comp.Total
}

func (s *OrderService) List(ctx context.Context, ownerID int64, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("status", "status must be one of pending, completed, cancelled")
	}
	if filter.OrderType != "" && !filter.OrderType.Valid() {
		return nil, domain.Invalid("order_type", "order type must be one of EatHere, TakeAway, Delivery")
	}
	if filter.Page > maxPage {
		return nil, domain.Invalid("page", fmt.Sprintf("page must not exceed %d", maxPage))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	orders, total, err := s.orders.ListOrders(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &domain.OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *OrderService) Get(ctx context.Context, ownerID, id int64) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, ownerID, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, ownerID, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status", "status must be one of pending, completed, cancelled")
	}

	order, err := s.orders.GetOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	prev := order.Status
	if !prev.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, prev, status)
	}

	rows, err := s.orders.UpdateOrderStatus(ctx, ownerID, id, prev, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: order %d changed concurrently", domain.ErrConflict, id)
	}

	order.Status = status
	order.UpdatedAt = s.now()
	s.publish(ctx, domain.NewOrderEvent(domain.EventOrderStatusChanged, order, prev, order.UpdatedAt))
	return order, nil
}

// UpdateContent re-prices a pending order against the current menu and settings.
func (s *OrderService) UpdateContent(ctx context.Context, ownerID, id int64, req domain.OrderRequest) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be edited", domain.ErrInvalidTransition)
	}

	rest, err := s.restaurants.GetRestaurantByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.OrderType.Valid() && !rest.Accepts(req.OrderType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderTypeDisabled, req.OrderType)
	}

	comp, err := s.compute(ctx, ownerID, rest.PricingSettings(), req)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.CustomerName); name != "" {
		order.CustomerName = name
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" {
		order.CustomerPhone = phone
	}
	apply(order, comp)

	rows, err := s.orders.ReplaceOrderContent(ctx, order)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: order %d is no longer pending", domain.ErrConflict, id)
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			slog.String("type", event.Type),
			slog.Int64("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
