package mocks

import (
	"context"

	"tablebook/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MenuRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MenuRepository) ListMenuItems(ctx context.Context, vendorID int64) ([]domain.MenuItem, error) {
	ret := m.Called(ctx, vendorID)
	var items []domain.MenuItem
	if ret.Get(0) != nil {
		items = ret.Get(0).([]domain.MenuItem)
	}
	return items, ret.Error(1)
}

func (m *MenuRepository) GetMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	ret := m.Called(ctx, ids)
	var items map[int64]domain.MenuItem
	if ret.Get(0) != nil {
		items = ret.Get(0).(map[int64]domain.MenuItem)
	}
	return items, ret.Error(1)
}
