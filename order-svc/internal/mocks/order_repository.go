package mocks

import (
	"context"

	"tablebook/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ret := m.Called(ctx, orderID)
	var order *domain.Order
	if ret.Get(0) != nil {
		order = ret.Get(0).(*domain.Order)
	}
	return order, ret.Error(1)
}

func (m *OrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ret := m.Called(ctx, filter)
	var orders []domain.Order
	if ret.Get(0) != nil {
		orders = ret.Get(0).([]domain.Order)
	}
	return orders, ret.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, from domain.Status, entry domain.StatusEntry) error {
	return m.Called(ctx, orderID, from, entry).Error(0)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, orderID int64, qr []byte) error {
	return m.Called(ctx, orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	ret := m.Called(ctx, orderID)
	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID int64) ([]byte, error) {
	ret := m.Called(orderID)
	var qr []byte
	if ret.Get(0) != nil {
		qr = ret.Get(0).([]byte)
	}
	return qr, ret.Error(1)
}
