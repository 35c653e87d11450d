package service

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
)

// NormalizeHost lower-cases a request host and strips its port and a leading "www.".
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ','); i >= 0 {
		host = strings.TrimSpace(host[:i])
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

type RestaurantService struct {
	repo   RestaurantRepository
	cache  TenantCache
	logger *slog.Logger
}

func NewRestaurantService(repo RestaurantRepository, cache TenantCache, logger *slog.Logger) *RestaurantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestaurantService{repo: repo, cache: cache, logger: logger}
}

// ResolveTenant maps a request host to the restaurant registered for it.
func (s *RestaurantService) ResolveTenant(ctx context.Context, host string) (*domain.Tenant, error) {
	host = NormalizeHost(host)
	if host == "" {
		return nil, fmt.Errorf("%w: tenant for empty host", domain.ErrNotFound)
	}

	if s.cache != nil {
		tenant, err := s.cache.GetTenant(ctx, host)
		if err != nil {
			s.logger.WarnContext(ctx, "tenant cache read failed", slog.String("host", host), slog.String("error", err.Error()))
		} else if tenant != nil {
			return tenant, nil
		}
	}

	rest, err := s.repo.GetRestaurantByDomain(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", host, err)
	}

	tenant := &domain.Tenant{
		OwnerID:        rest.OwnerID,
		RestaurantID:   rest.ID,
		Host:           host,
		RestaurantName: rest.RestaurantName,
	}
	if s.cache != nil {
		if err := s.cache.SetTenant(ctx, host, *tenant); err != nil {
			s.logger.WarnContext(ctx, "tenant cache write failed", slog.String("host", host), slog.String("error", err.Error()))
		}
	}
	return tenant, nil
}

func (s *RestaurantService) Public(ctx context.Context, tenant domain.Tenant) (*domain.PublicRestaurant, error) {
	rest, err := s.repo.GetRestaurant(ctx, tenant.RestaurantID)
	if err != nil {
		return nil, err
	}
	public := rest.Public()
	return &public, nil
}

// ForPrincipal returns the restaurant an admin owns or a staff member works at.
func (s *RestaurantService) ForPrincipal(ctx context.Context, p auth.Principal) (*domain.Restaurant, error) {
	switch p.Role {
	case auth.RoleAdmin:
		return s.repo.GetRestaurantByOwner(ctx, p.UserID)
	case auth.RoleStaff:
		if p.RestaurantID == 0 {
			return nil, fmt.Errorf("%w: no restaurant assigned", domain.ErrNotFound)
		}
		return s.repo.GetRestaurant(ctx, p.RestaurantID)
	}
	return nil, fmt.Errorf("%w: role %s has no restaurant", domain.ErrForbidden, p.Role)
}

func (s *RestaurantService) Update(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error) {
	if upd.Empty() {
		return nil, domain.Invalid("", "no fields to update")
	}
	if upd.GSTRate != nil {
		if err := validateRate(*upd.GSTRate); err != nil {
			return nil, err
		}
	}
	if upd.DeliveryCharge != nil && *upd.DeliveryCharge < 0 {
		return nil, domain.Invalid("delivery_charge", "delivery charge must be a non-negative number")
	}
	if upd.TableCount != nil && *upd.TableCount < 0 {
		return nil, domain.Invalid("table_count", "table count must be non-negative")
	}
	if upd.Categories != nil {
		cleaned := cleanCategories(*upd.Categories)
		upd.Categories = &cleaned
	}
	return s.update(ctx, ownerID, upd)
}

func (s *RestaurantService) update(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error) {
	rest, err := s.repo.UpdateRestaurant(ctx, ownerID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, rest.Domain)
	return rest, nil
}

func (s *RestaurantService) Delete(ctx context.Context, ownerID int64) error {
	rest, err := s.repo.GetRestaurantByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	rows, err := s.repo.SoftDeleteRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: restaurant", domain.ErrNotFound)
	}
	s.invalidate(ctx, rest.Domain)
	return nil
}

func (s *RestaurantService) UpdateGST(ctx context.Context, ownerID int64, enabled *bool, rate *float64) (*domain.Restaurant, error) {
	if enabled == nil && rate == nil {
		return nil, domain.Invalid("", "gst_enabled or gst_rate is required")
	}
	if rate != nil {
		if err := validateRate(*rate); err != nil {
			return nil, err
		}
	}
	return s.update(ctx, ownerID, domain.RestaurantUpdate{GSTEnabled: enabled, GSTRate: rate})
}

func (s *RestaurantService) SetOpen(ctx context.Context, ownerID int64, isOpen bool) (*domain.Restaurant, error) {
	return s.update(ctx, ownerID, domain.RestaurantUpdate{IsOpen: &isOpen})
}

// UpdateDelivery sets the delivery surcharge and toggles the delivery order mode.
func (s *RestaurantService) UpdateDelivery(ctx context.Context, ownerID int64, charge *float64, enabled *bool) (*domain.Restaurant, error) {
	if charge == nil && enabled == nil {
		return nil, domain.Invalid("", "delivery_charge or delivery_enabled is required")
	}
	if charge != nil && *charge < 0 {
		return nil, domain.Invalid("delivery_charge", "delivery charge must be a non-negative number")
	}

	upd := domain.RestaurantUpdate{DeliveryCharge: charge}
	if enabled != nil {
		rest, err := s.repo.GetRestaurantByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		modes := rest.OrderModes
		modes.Delivery = *enabled
		upd.OrderModes = &modes
	}
	return s.update(ctx, ownerID, upd)
}

func (s *RestaurantService) QRCode(ctx context.Context, ownerID int64) ([]byte, error) {
	rest, err := s.repo.GetRestaurantByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rest.QRCode) == 0 {
		return nil, fmt.Errorf("%w: qr code", domain.ErrNotFound)
	}
	return rest.QRCode, nil
}

func (s *RestaurantService) invalidate(ctx context.Context, host string) {
	if s.cache == nil || host == "" {
		return
	}
	if err := s.cache.InvalidateTenant(ctx, host); err != nil {
		s.logger.WarnContext(ctx, "tenant cache invalidation failed", slog.String("host", host), slog.String("error", err.Error()))
	}
}

func validateRate(rate float64) error {
	if rate < 0 || rate > 100 {
		return domain.Invalid("gst_rate", "GST rate must be a number between 0 and 100")
	}
	return nil
}

func cleanCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(c)]; ok {
			continue
		}
		seen[strings.ToLower(c)] = struct{}{}
		out = append(out, c)
	}
	return out
}

var _ RestaurantServiceInterface = (*RestaurantService)(nil)
