package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO vendors (name, address, description, image_url) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		vendor.Name, vendor.Address, vendor.Description, vendor.ImageURL,
	).Scan(&vendor.ID, &vendor.CreatedAt)
}

const vendorColumns = "id, name, COALESCE(address, ''), COALESCE(description, ''), COALESCE(image_url, ''), rating, num_reviews, created_at"

func scanVendor(row interface{ Scan(...any) error }) (domain.Vendor, error) {
	var vendor domain.Vendor
	err := row.Scan(&vendor.ID, &vendor.Name, &vendor.Address, &vendor.Description, &vendor.ImageURL,
		&vendor.Rating, &vendor.NumReviews, &vendor.CreatedAt)
	return vendor, err
}

func (r *PostgresRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, rows.Err()
}

func (r *PostgresRepository) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	vendor, err := scanVendor(r.DB.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpdateVendor rewrites the profile fields and loads the aggregator-owned
// rating columns back into vendor.
func (r *PostgresRepository) UpdateVendor(ctx context.Context, vendor *domain.Vendor) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE vendors
		SET name=$1, address=$2, description=$3, image_url=$4
		WHERE id=$5
		RETURNING rating, num_reviews, created_at`,
		vendor.Name, vendor.Address, vendor.Description, vendor.ImageURL, vendor.ID).
		Scan(&vendor.Rating, &vendor.NumReviews, &vendor.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx,
		"INSERT INTO menu_items (vendor_id, name, description, price, image_url, available) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at",
		item.VendorID, item.Name, item.Description, item.Price, item.ImageURL, item.Available,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name=$1, description=$2, price=$3, image_url=$4, available=$5
		WHERE id=$6 AND vendor_id=$7
		RETURNING created_at`,
		item.Name, item.Description, item.Price, item.ImageURL, item.Available, item.ID, item.VendorID).
		Scan(&item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

const menuColumns = "id, vendor_id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), available, created_at"

func scanMenuItem(row interface{ Scan(...any) error }) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.VendorID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Available, &item.CreatedAt)
	return item, err
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, vendorID int64) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE vendor_id = $1 ORDER BY id`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	items := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetCart(ctx context.Context, customerID int64) (*domain.Cart, error) {
	cart := domain.NewCustomerCart(customerID)
	err := r.DB.QueryRowContext(ctx, "SELECT updated_at FROM carts WHERE customer_id = $1", customerID).Scan(&cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cart, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT menu_item_id, name, unit_price, COALESCE(image_url, ''), quantity, COALESCE(note, '')
		FROM cart_items
		WHERE customer_id = $1
		ORDER BY position, menu_item_id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.UnitPrice, &item.ImageURL, &item.Quantity, &item.Note); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	cart.Recompute()
	return cart, nil
}

// SaveCart replaces the stored lines with the cart's current lines.
func (r *PostgresRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cart.UpdatedAt.IsZero() {
		cart.UpdatedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO carts (customer_id, updated_at) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		cart.CustomerID, cart.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE customer_id = $1", cart.CustomerID); err != nil {
		return err
	}
	for i, item := range cart.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (customer_id, menu_item_id, name, unit_price, image_url, quantity, note, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			cart.CustomerID, item.MenuItemID, item.Name, item.UnitPrice, item.ImageURL, item.Quantity, item.Note, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) DeleteCart(ctx context.Context, customerID int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM carts WHERE customer_id = $1", customerID)
	return err
}

// CreateOrder persists the order and empties the customer's cart in one
// transaction. The cart row stays locked until commit, and the order is refused
// with ErrCartChanged when the stored lines no longer match the priced snapshot.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockCartSnapshot(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, vendor_id, total_amount, delivery_address, contact_phone, payment_method, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, order.CustomerID, order.VendorID, order.TotalAmount, order.DeliveryAddress, order.ContactPhone,
		order.PaymentMethod, order.Note, order.Status).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, item.MenuItemID, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return err
		}
	}

	for _, entry := range order.History {
		if err := insertHistory(ctx, tx, order.ID, entry); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM carts WHERE customer_id = $1", order.CustomerID); err != nil {
		return err
	}

	return tx.Commit()
}

func lockCartSnapshot(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	var customerID int64
	err := tx.QueryRowContext(ctx, "SELECT customer_id FROM carts WHERE customer_id = $1 FOR UPDATE", order.CustomerID).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCartChanged
	}
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, "SELECT menu_item_id, quantity FROM cart_items WHERE customer_id = $1", order.CustomerID)
	if err != nil {
		return err
	}
	defer rows.Close()

	stored := make(map[int64]int)
	for rows.Next() {
		var menuItemID int64
		var quantity int
		if err := rows.Scan(&menuItemID, &quantity); err != nil {
			return err
		}
		stored[menuItemID] = quantity
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(stored) != len(order.Items) {
		return domain.ErrCartChanged
	}
	for _, item := range order.Items {
		if stored[item.MenuItemID] != item.Quantity {
			return domain.ErrCartChanged
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, orderID int64, entry domain.StatusEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, actor_id, actor_role, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, orderID, entry.Status, entry.ActorID, entry.ActorRole, entry.Note, entry.CreatedAt)
	return err
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int64, from domain.Status, entry domain.StatusEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2 AND status = $3", entry.Status, orderID, from)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrInvalidTransition
	}
	if err := insertHistory(ctx, tx, orderID, entry); err != nil {
		return err
	}

	return tx.Commit()
}

const orderColumns = `id, customer_id, vendor_id, total_amount, delivery_address, contact_phone, payment_method,
	COALESCE(note, ''), status, created_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var order domain.Order
	err := row.Scan(&order.ID, &order.CustomerID, &order.VendorID, &order.TotalAmount, &order.DeliveryAddress,
		&order.ContactPhone, &order.PaymentMethod, &order.Note, &order.Status, &order.CreatedAt)
	return order, err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.orderItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	rows, err := r.DB.QueryContext(ctx, `
		SELECT status, actor_id, actor_role, COALESCE(note, ''), created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.StatusEntry
		if err := rows.Scan(&entry.Status, &entry.ActorID, &entry.ActorRole, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, err
		}
		order.History = append(order.History, entry)
	}
	return &order, rows.Err()
}

func (r *PostgresRepository) orderItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CustomerID != 0 {
		args = append(args, filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.VendorID != 0 {
		args = append(args, filter.VendorID)
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []int64
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int64, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}
