package service

import (
	"context"

	"tablebook/access"
	"tablebook/order-svc/internal/domain"
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

func (s *MenuService) List(ctx context.Context, vendorID int64) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, vendorID)
}

func (s *MenuService) Create(ctx context.Context, actor access.Actor, item *domain.MenuItem) error {
	if !actor.Is(access.RoleVendor) || actor.ID != item.VendorID {
		return access.ErrForbidden
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	return s.repo.CreateMenuItem(ctx, item)
}

func (s *MenuService) Update(ctx context.Context, actor access.Actor, item *domain.MenuItem) error {
	if !actor.Is(access.RoleVendor) || actor.ID != item.VendorID {
		return access.ErrForbidden
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	return s.repo.UpdateMenuItem(ctx, item)
}
