package service

import (
	"context"
	"fmt"
	"log"

	"tablebook/order-svc/internal/domain"
)

// CartOwner selects the durable cart of a customer or the anonymous cart of a
// guest session. CustomerID wins when both are set.
type CartOwner struct {
	CustomerID int64
	SessionID  string
}

func (o CartOwner) IsGuest() bool {
	return o.CustomerID == 0
}

type CartService struct {
	carts  CartRepository
	guests GuestCartStore
	menu   MenuRepository
}

func NewCartService(carts CartRepository, guests GuestCartStore, menu MenuRepository) *CartService {
	return &CartService{carts: carts, guests: guests, menu: menu}
}

func (s *CartService) load(ctx context.Context, owner CartOwner) (*domain.Cart, error) {
	if owner.IsGuest() {
		if owner.SessionID == "" {
			return nil, domain.ValidationError{Field: "session_id", Message: "guest cart session is required"}
		}
		return s.guests.Get(ctx, owner.SessionID)
	}
	return s.carts.GetCart(ctx, owner.CustomerID)
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	if cart.IsGuest() {
		return s.guests.Save(ctx, cart)
	}
	return s.carts.SaveCart(ctx, cart)
}

func (s *CartService) Get(ctx context.Context, owner CartOwner) (*domain.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.Recompute()
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, owner CartOwner, menuItemID int64, quantity int, note string) (*domain.Cart, error) {
	if quantity < 1 || quantity > domain.MaxLineQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	items, err := s.menu.GetMenuItems(ctx, []int64{menuItemID})
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	item, ok := items[menuItemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !item.Available {
		return nil, domain.ValidationError{Field: "menu_item_id", Message: "menu item is not available"}
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(item, quantity, note); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, owner CartOwner, menuItemID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateQuantity(menuItemID, quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, owner CartOwner, menuItemID int64) (*domain.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(menuItemID)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, owner CartOwner) error {
	if owner.IsGuest() {
		if owner.SessionID == "" {
			return domain.ValidationError{Field: "session_id", Message: "guest cart session is required"}
		}
		return s.guests.Delete(ctx, owner.SessionID)
	}
	return s.carts.DeleteCart(ctx, owner.CustomerID)
}

// MergeGuestCart moves a guest session's lines into the customer's durable
// cart after login and drops the guest cart.
func (s *CartService) MergeGuestCart(ctx context.Context, customerID int64, sessionID string) (*domain.Cart, error) {
	durable, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		durable.Recompute()
		return durable, nil
	}
	guest, err := s.guests.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if guest.IsEmpty() {
		durable.Recompute()
		return durable, nil
	}

	merged, err := domain.Merge(guest, durable)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SaveCart(ctx, merged); err != nil {
		return nil, err
	}
	if err := s.guests.Delete(ctx, sessionID); err != nil {
		log.Printf("failed to drop merged guest cart %s: %v", sessionID, err)
	}
	return merged, nil
}
