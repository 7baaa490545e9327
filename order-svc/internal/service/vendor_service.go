package service

import (
	"context"

	"tablebook/access"
	"tablebook/order-svc/internal/domain"
)

type VendorService struct {
	repo VendorRepository
}

func NewVendorService(repo VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

// Create registers a vendor. Only admins onboard vendors.
func (s *VendorService) Create(ctx context.Context, actor access.Actor, vendor *domain.Vendor) error {
	if !actor.Is(access.RoleAdmin) {
		return access.ErrForbidden
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}
	return s.repo.CreateVendor(ctx, vendor)
}

func (s *VendorService) List(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.ListVendors(ctx)
}

func (s *VendorService) Get(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.repo.GetVendor(ctx, id)
}

// Update edits the vendor profile. The vendor account itself or an admin may
// do so.
func (s *VendorService) Update(ctx context.Context, actor access.Actor, vendor *domain.Vendor) error {
	if err := access.Authorize(actor, 0, vendor.ID); err != nil {
		return err
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}
	return s.repo.UpdateVendor(ctx, vendor)
}
