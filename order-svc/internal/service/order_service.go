package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tablebook/access"
	"tablebook/order-svc/internal/domain"
)

type OrderService struct {
	orders    OrderRepository
	carts     CartRepository
	menu      MenuRepository
	qrEncoder QRGenerator
	now       func() time.Time
}

func NewOrderService(orders OrderRepository, carts CartRepository, menu MenuRepository, qr QRGenerator) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		menu:      menu,
		qrEncoder: qr,
		now:       time.Now,
	}
}

// Create turns the customer's durable cart into a pending order. Prices come
// from the menu catalog at this moment, never from the cart snapshot.
func (s *OrderService) Create(ctx context.Context, actor access.Actor, req domain.CheckoutRequest) (*domain.Order, error) {
	if !actor.Is(access.RoleCustomer) {
		return nil, access.ErrForbidden
	}

	cart, err := s.carts.GetCart(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if err := ValidateCheckout(req); err != nil {
		return nil, err
	}

	menu, err := s.menu.GetMenuItems(ctx, cart.MenuItemIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	items, vendorID, err := priceLines(cart.Items, menu)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		CustomerID:      actor.ID,
		VendorID:        vendorID,
		Items:           items,
		TotalAmount:     domain.OrderTotal(items),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		ContactPhone:    strings.TrimSpace(req.ContactPhone),
		PaymentMethod:   strings.ToLower(req.PaymentMethod),
		Note:            req.Note,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		History: []domain.StatusEntry{{
			Status:    domain.StatusPending,
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
			CreatedAt: now,
		}},
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.orders.SaveQRCode(ctx, order.ID, qr); err != nil {
				log.Printf("failed to store qr code for order %d: %v", order.ID, err)
			}
		}
	}
	order.QRCode = s.QRLink(order.ID)

	log.Printf("Order %d created for customer %d at vendor %d, total %s", order.ID, order.CustomerID, order.VendorID, order.TotalAmount.StringFixed(2))
	return order, nil
}

// priceLines re-derives every line from the catalog and checks that the cart
// targets exactly one vendor.
func priceLines(lines []domain.CartItem, menu map[int64]domain.MenuItem) ([]domain.OrderItem, int64, error) {
	items := make([]domain.OrderItem, 0, len(lines))
	var vendorID int64
	for i, line := range lines {
		field := fmt.Sprintf("items[%d]", i)
		if line.Quantity < 1 || line.Quantity > domain.MaxLineQuantity {
			return nil, 0, domain.ValidationError{Field: field + ".quantity", Message: "quantity must be between 1 and 999"}
		}
		current, ok := menu[line.MenuItemID]
		if !ok {
			return nil, 0, domain.ValidationError{Field: field, Message: "menu item no longer exists"}
		}
		if !current.Available {
			return nil, 0, domain.ValidationError{Field: field, Message: current.Name + " is not available"}
		}
		if vendorID == 0 {
			vendorID = current.VendorID
		} else if vendorID != current.VendorID {
			return nil, 0, domain.ValidationError{Field: "items", Message: "all items must come from the same vendor"}
		}
		items = append(items, domain.OrderItem{
			MenuItemID: current.ID,
			Name:       current.Name,
			UnitPrice:  current.Price,
			Quantity:   line.Quantity,
		})
	}
	return items, vendorID, nil
}

func (s *OrderService) Get(ctx context.Context, actor access.Actor, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, order.CustomerID, order.VendorID); err != nil {
		return nil, err
	}
	order.QRCode = s.QRLink(order.ID)
	return order, nil
}

// List narrows the filter to what the actor may see: customers their own
// orders, vendors the orders placed with them, admins anything.
func (s *OrderService) List(ctx context.Context, actor access.Actor, filter domain.OrderFilter) ([]domain.Order, error) {
	switch actor.Role {
	case access.RoleCustomer:
		if filter.CustomerID != 0 && filter.CustomerID != actor.ID {
			return nil, access.ErrForbidden
		}
		filter.CustomerID = actor.ID
	case access.RoleVendor:
		if filter.VendorID != 0 && filter.VendorID != actor.ID {
			return nil, access.ErrForbidden
		}
		filter.VendorID = actor.ID
	case access.RoleAdmin:
	default:
		return nil, access.ErrForbidden
	}
	if filter.Status != "" {
		if _, ok := domain.ParseStatus(string(filter.Status)); !ok {
			return nil, domain.ValidationError{Field: "status", Message: "unknown order status"}
		}
	}
	return s.orders.ListOrders(ctx, filter)
}

func (s *OrderService) Transition(ctx context.Context, actor access.Actor, orderID int64, to domain.Status, note string) (*domain.Order, error) {
	if _, ok := domain.ParseStatus(string(to)); !ok {
		return nil, domain.ValidationError{Field: "status", Message: "unknown order status"}
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	entry, err := order.Transition(actor, to, note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, from, entry); err != nil {
		return nil, err
	}

	log.Printf("Order %d moved %s -> %s by %s %d", order.ID, from, to, actor.Role, actor.ID)
	order.QRCode = s.QRLink(order.ID)
	return order, nil
}

func (s *OrderService) GetQRCode(ctx context.Context, actor access.Actor, orderID int64) ([]byte, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, order.CustomerID, order.VendorID); err != nil {
		return nil, err
	}

	qr, err := s.orders.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			_ = s.orders.SaveQRCode(ctx, orderID, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderID int64) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}
