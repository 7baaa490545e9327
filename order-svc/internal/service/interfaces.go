package service

import (
	"context"

	"tablebook/access"
	"tablebook/order-svc/internal/domain"
)

type VendorRepository interface {
	CreateVendor(ctx context.Context, vendor *domain.Vendor) error
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *domain.Vendor) error
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, vendorID int64) ([]domain.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error)
}

type CartRepository interface {
	// GetCart returns an empty cart when the customer has none yet.
	GetCart(ctx context.Context, customerID int64) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, customerID int64) error
}

type GuestCartStore interface {
	// Get returns an empty cart for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type OrderRepository interface {
	// CreateOrder persists the order, its lines and first history entry and
	// empties the customer's durable cart in one transaction.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// UpdateStatus moves the order away from `from` and appends entry. It
	// returns domain.ErrInvalidTransition if the stored status is no longer
	// `from`.
	UpdateStatus(ctx context.Context, orderID int64, from domain.Status, entry domain.StatusEntry) error
	SaveQRCode(ctx context.Context, orderID int64, qr []byte) error
	GetQRCode(ctx context.Context, orderID int64) ([]byte, error)
}

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

type VendorServiceInterface interface {
	Create(ctx context.Context, actor access.Actor, vendor *domain.Vendor) error
	List(ctx context.Context) ([]domain.Vendor, error)
	Get(ctx context.Context, id int64) (*domain.Vendor, error)
	Update(ctx context.Context, actor access.Actor, vendor *domain.Vendor) error
}

type MenuServiceInterface interface {
	List(ctx context.Context, vendorID int64) ([]domain.MenuItem, error)
	Create(ctx context.Context, actor access.Actor, item *domain.MenuItem) error
	Update(ctx context.Context, actor access.Actor, item *domain.MenuItem) error
}

type CartServiceInterface interface {
	Get(ctx context.Context, owner CartOwner) (*domain.Cart, error)
	AddItem(ctx context.Context, owner CartOwner, menuItemID int64, quantity int, note string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner CartOwner, menuItemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner CartOwner, menuItemID int64) (*domain.Cart, error)
	Clear(ctx context.Context, owner CartOwner) error
	MergeGuestCart(ctx context.Context, customerID int64, sessionID string) (*domain.Cart, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, actor access.Actor, req domain.CheckoutRequest) (*domain.Order, error)
	Get(ctx context.Context, actor access.Actor, orderID int64) (*domain.Order, error)
	List(ctx context.Context, actor access.Actor, filter domain.OrderFilter) ([]domain.Order, error)
	Transition(ctx context.Context, actor access.Actor, orderID int64, to domain.Status, note string) (*domain.Order, error)
	GetQRCode(ctx context.Context, actor access.Actor, orderID int64) ([]byte, error)
	QRLink(orderID int64) string
}

var (
	_ VendorServiceInterface = (*VendorService)(nil)
	_ MenuServiceInterface   = (*MenuService)(nil)
	_ CartServiceInterface   = (*CartService)(nil)
	_ OrderServiceInterface  = (*OrderService)(nil)
)
