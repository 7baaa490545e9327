package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"vendor_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderItem struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type StatusEntry struct {
	Status    Status    `json:"status"`
	ActorID   int64     `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	VendorID        int64           `json:"vendor_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	ContactPhone    string          `json:"contact_phone"`
	PaymentMethod   string          `json:"payment_method"`
	Note            string          `json:"note,omitempty"`
	Status          Status          `json:"status"`
	QRCode          string          `json:"qr_code,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	History         []StatusEntry   `json:"history,omitempty"`
}

// OrderTotal sums the line totals. Orders never store a total that was not
// produced here.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	ContactPhone    string `json:"contact_phone"`
	PaymentMethod   string `json:"payment_method"`
	Note            string `json:"note"`
}

type OrderFilter struct {
	CustomerID int64
	VendorID   int64
	Status     Status
}
