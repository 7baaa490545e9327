package mocks

import (
	"context"

	"tablebook/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type VendorRepository struct {
	mock.Mock
}

func NewVendorRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *VendorRepository {
	m := &VendorRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *VendorRepository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}

func (m *VendorRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	ret := m.Called(ctx)
	var vendors []domain.Vendor
	if ret.Get(0) != nil {
		vendors = ret.Get(0).([]domain.Vendor)
	}
	return vendors, ret.Error(1)
}

func (m *VendorRepository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	ret := m.Called(ctx, id)
	var vendor *domain.Vendor
	if ret.Get(0) != nil {
		vendor = ret.Get(0).(*domain.Vendor)
	}
	return vendor, ret.Error(1)
}

func (m *VendorRepository) UpdateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return m.Called(ctx, vendor).Error(0)
}
