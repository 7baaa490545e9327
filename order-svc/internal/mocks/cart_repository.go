package mocks

import (
	"context"

	"tablebook/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func NewCartRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CartRepository {
	m := &CartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CartRepository) GetCart(ctx context.Context, customerID int64) (*domain.Cart, error) {
	ret := m.Called(ctx, customerID)
	var cart *domain.Cart
	if ret.Get(0) != nil {
		cart = ret.Get(0).(*domain.Cart)
	}
	return cart, ret.Error(1)
}

func (m *CartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, customerID int64) error {
	return m.Called(ctx, customerID).Error(0)
}

type GuestCartStore struct {
	mock.Mock
}

func NewGuestCartStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *GuestCartStore {
	m := &GuestCartStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *GuestCartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	ret := m.Called(ctx, sessionID)
	var cart *domain.Cart
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.Cart); ok {
		cart = rf(ctx, sessionID)
	} else if ret.Get(0) != nil {
		cart = ret.Get(0).(*domain.Cart)
	}
	return cart, ret.Error(1)
}

func (m *GuestCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *GuestCartStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
