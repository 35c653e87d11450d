package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tablebite/restaurant-svc/internal/domain"
)

type TenantCache struct {
	mock.Mock
}

func (m *TenantCache) GetTenant(ctx context.Context, host string) (*domain.Tenant, error) {
	args := m.Called(ctx, host)
	t, _ := args.Get(0).(*domain.Tenant)
	return t, args.Error(1)
}

func (m *TenantCache) SetTenant(ctx context.Context, host string, tenant domain.Tenant) error {
	return m.Called(ctx, host, tenant).Error(0)
}

func (m *TenantCache) InvalidateTenant(ctx context.Context, host string) error {
	return m.Called(ctx, host).Error(0)
}

type IdempotencyGuard struct {
	mock.Mock
}

func (m *IdempotencyGuard) Claim(ctx context.Context, ownerID int64, key string) (bool, error) {
	args := m.Called(ctx, ownerID, key)
	return args.Bool(0), args.Error(1)
}

func (m *IdempotencyGuard) Release(ctx context.Context, ownerID int64, key string) error {
	return m.Called(ctx, ownerID, key).Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(host string) ([]byte, error) {
	args := m.Called(host)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}
