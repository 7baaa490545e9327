package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps a single cart line, including sums produced by repeated
// adds and merges.
const MaxLineQuantity = 999

func validQuantity(q int) bool {
	return q >= 1 && q <= MaxLineQuantity
}

// CartItem is one line of a cart. A cart holds at most one line per menu item,
// so the menu item id doubles as the line id.
type CartItem struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url,omitempty"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart belongs either to a customer (durable) or to an anonymous session
// (SessionID set, CustomerID zero).
type Cart struct {
	CustomerID  int64           `json:"customer_id,omitempty"`
	SessionID   string          `json:"session_id,omitempty"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewCustomerCart(customerID int64) *Cart {
	return &Cart{CustomerID: customerID, Items: []CartItem{}, TotalAmount: decimal.Zero}
}

func NewGuestCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []CartItem{}, TotalAmount: decimal.Zero}
}

func (c *Cart) IsGuest() bool {
	return c.CustomerID == 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(menuItemID int64) int {
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// AddItem bumps the quantity of an existing line or appends a snapshot of the
// menu item. The snapshot price is for display only.
func (c *Cart) AddItem(item MenuItem, quantity int, note string) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(item.ID); i >= 0 {
		if !validQuantity(c.Items[i].Quantity + quantity) {
			return ErrInvalidQuantity
		}
		c.Items[i].Quantity += quantity
		if note != "" {
			c.Items[i].Note = note
		}
	} else {
		c.Items = append(c.Items, CartItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			ImageURL:   item.ImageURL,
			Quantity:   quantity,
			Note:       note,
		})
	}
	c.touch()
	return nil
}

func (c *Cart) UpdateQuantity(menuItemID int64, quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	i := c.indexOf(menuItemID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Items[i].Quantity = quantity
	c.touch()
	return nil
}

// RemoveItem is a no-op when the line does not exist.
func (c *Cart) RemoveItem(menuItemID int64) {
	if i := c.indexOf(menuItemID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.touch()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

func (c *Cart) MenuItemIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.MenuItemID)
	}
	return ids
}

// Recompute derives TotalAmount from the lines. It is the only writer of the
// total.
func (c *Cart) Recompute() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	c.TotalAmount = total
}

func (c *Cart) touch() {
	c.Recompute()
	c.UpdatedAt = time.Now()
}

// Merge folds an anonymous cart into the durable one: lines for the same menu
// item sum their quantities, the rest are appended. The anonymous cart must be
// discarded by the caller afterwards. A merge that would push a line past
// MaxLineQuantity fails with ErrInvalidQuantity and leaves durable untouched.
func Merge(anonymous, durable *Cart) (*Cart, error) {
	if anonymous == nil {
		durable.touch()
		return durable, nil
	}
	for _, line := range anonymous.Items {
		sum := line.Quantity
		if i := durable.indexOf(line.MenuItemID); i >= 0 {
			sum += durable.Items[i].Quantity
		}
		if !validQuantity(line.Quantity) || !validQuantity(sum) {
			return nil, ErrInvalidQuantity
		}
	}
	for _, line := range anonymous.Items {
		if i := durable.indexOf(line.MenuItemID); i >= 0 {
			durable.Items[i].Quantity += line.Quantity
			if durable.Items[i].Note == "" {
				durable.Items[i].Note = line.Note
			}
			continue
		}
		durable.Items = append(durable.Items, line)
	}
	durable.touch()
	return durable, nil
}
