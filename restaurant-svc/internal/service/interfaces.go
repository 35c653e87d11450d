package service

import (
	"context"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	CreateAdminWithRestaurant(ctx context.Context, u *domain.User, rest *domain.Restaurant) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	ListUsersByRole(ctx context.Context, role auth.Role, createdBy int64) ([]domain.User, error)
}

type RestaurantRepository interface {
	GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error)
	GetRestaurantByOwner(ctx context.Context, ownerID int64) (*domain.Restaurant, error)
	GetRestaurantByDomain(ctx context.Context, host string) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error)
	SoftDeleteRestaurant(ctx context.Context, ownerID int64) (int64, error)
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, ownerID int64, onlyAvailable bool) ([]domain.MenuItem, error)
	FindMenuItemsByIDs(ctx context.Context, ownerID int64, ids []int64, onlyAvailable bool) ([]domain.MenuItem, error)
	SoftDeleteMenuItem(ctx context.Context, ownerID, id int64) (int64, error)
	ToggleMenuItemAvailability(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error)
	UpdateMenuItemImage(ctx context.Context, ownerID, id int64, imageURL string) (int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, ownerID, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, ownerID int64, filter domain.OrderFilter) ([]domain.Order, int, error)
	UpdateOrderStatus(ctx context.Context, ownerID, id int64, from, to domain.OrderStatus) (int64, error)
	ReplaceOrderContent(ctx context.Context, order *domain.Order) (int64, error)
}

// TenantCache memoises host to tenant lookups. GetTenant returns nil, nil on a miss.
type TenantCache interface {
	GetTenant(ctx context.Context, host string) (*domain.Tenant, error)
	SetTenant(ctx context.Context, host string, tenant domain.Tenant) error
	InvalidateTenant(ctx context.Context, host string) error
}

// IdempotencyGuard claims a client supplied key once per tenant.
type IdempotencyGuard interface {
	Claim(ctx context.Context, ownerID int64, key string) (bool, error)
	Release(ctx context.Context, ownerID int64, key string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(host string) ([]byte, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, creator *auth.Principal, role auth.Role, in domain.RegisterInput) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	ListByRole(ctx context.Context, role auth.Role, createdBy int64) ([]domain.User, error)
	VerifyPrincipal(ctx context.Context, p auth.Principal) error
}

type RestaurantServiceInterface interface {
	ResolveTenant(ctx context.Context, host string) (*domain.Tenant, error)
	Public(ctx context.Context, tenant domain.Tenant) (*domain.PublicRestaurant, error)
	ForPrincipal(ctx context.Context, p auth.Principal) (*domain.Restaurant, error)
	Update(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error)
	Delete(ctx context.Context, ownerID int64) error
	UpdateGST(ctx context.Context, ownerID int64, enabled *bool, rate *float64) (*domain.Restaurant, error)
	SetOpen(ctx context.Context, ownerID int64, isOpen bool) (*domain.Restaurant, error)
	UpdateDelivery(ctx context.Context, ownerID int64, charge *float64, enabled *bool) (*domain.Restaurant, error)
	QRCode(ctx context.Context, ownerID int64) ([]byte, error)
}

type MenuServiceInterface interface {
	PublicMenu(ctx context.Context, tenant domain.Tenant) ([]domain.MenuItem, error)
	List(ctx context.Context, ownerID int64) ([]domain.MenuItem, error)
	Create(ctx context.Context, ownerID int64, in domain.MenuItemInput) (*domain.MenuItem, error)
	Update(ctx context.Context, ownerID, id int64, in domain.MenuItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, ownerID, id int64) error
	ToggleAvailability(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error)
	UpdateImage(ctx context.Context, ownerID, id int64, imageURL string) error
}

type OrderServiceInterface interface {
	Place(ctx context.Context, tenant domain.Tenant, idempotencyKey string, req domain.OrderRequest) (*domain.Order, error)
	List(ctx context.Context, ownerID int64, filter domain.OrderFilter) (*domain.OrderPage, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, ownerID, id int64, status domain.OrderStatus) (*domain.Order, error)
	UpdateContent(ctx context.Context, ownerID, id int64, req domain.OrderRequest) (*domain.Order, error)
}
