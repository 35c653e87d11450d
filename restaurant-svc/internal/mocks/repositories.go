package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
)

type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t mock.TestingT) *UserRepository {
	m := new(UserRepository)
	m.Test(t)
	return m
}

func (m *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) CreateAdminWithRestaurant(ctx context.Context, u *domain.User, rest *domain.Restaurant) error {
	return m.Called(ctx, u, rest).Error(0)
}

func (m *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *UserRepository) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, upd)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *UserRepository) ListUsersByRole(ctx context.Context, role auth.Role, createdBy int64) ([]domain.User, error) {
	args := m.Called(ctx, role, createdBy)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

type RestaurantRepository struct {
	mock.Mock
}

func NewRestaurantRepository(t mock.TestingT) *RestaurantRepository {
	m := new(RestaurantRepository)
	m.Test(t)
	return m
}

func (m *RestaurantRepository) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepository) GetRestaurantByOwner(ctx context.Context, ownerID int64) (*domain.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).(*domain.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepository) GetRestaurantByDomain(ctx context.Context, host string) (*domain.Restaurant, error) {
	args := m.Called(ctx, host)
	r, _ := args.Get(0).(*domain.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepository) UpdateRestaurant(ctx context.Context, ownerID int64, upd domain.RestaurantUpdate) (*domain.Restaurant, error) {
	args := m.Called(ctx, ownerID, upd)
	r, _ := args.Get(0).(*domain.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepository) SoftDeleteRestaurant(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t mock.TestingT) *MenuRepository {
	m := new(MenuRepository)
	m.Test(t)
	return m
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) GetMenuItem(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error) {
	args := m.Called(ctx, ownerID, id)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) ListMenuItems(ctx context.Context, ownerID int64, onlyAvailable bool) ([]domain.MenuItem, error) {
	args := m.Called(ctx, ownerID, onlyAvailable)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) FindMenuItemsByIDs(ctx context.Context, ownerID int64, ids []int64, onlyAvailable bool) ([]domain.MenuItem, error) {
	args := m.Called(ctx, ownerID, ids, onlyAvailable)
	items, _ := args.Get(0).([]domain.MenuItem)
	return items, args.Error(1)
}

func (m *MenuRepository) SoftDeleteMenuItem(ctx context.Context, ownerID, id int64) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) ToggleMenuItemAvailability(ctx context.Context, ownerID, id int64) (*domain.MenuItem, error) {
	args := m.Called(ctx, ownerID, id)
	item, _ := args.Get(0).(*domain.MenuItem)
	return item, args.Error(1)
}

func (m *MenuRepository) UpdateMenuItemImage(ctx context.Context, ownerID, id int64, imageURL string) (int64, error) {
	args := m.Called(ctx, ownerID, id, imageURL)
	return args.Get(0).(int64), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t mock.TestingT) *OrderRepository {
	m := new(OrderRepository)
	m.Test(t)
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, ownerID, id int64) (*domain.Order, error) {
	args := m.Called(ctx, ownerID, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, ownerID int64, filter domain.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, ownerID, filter)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, ownerID, id int64, from, to domain.OrderStatus) (int64, error) {
	args := m.Called(ctx, ownerID, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) ReplaceOrderContent(ctx context.Context, order *domain.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}
