package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	GetProductForOrder(ctx context.Context, productID uint) (*OrderProduct, error)
	CreateOrderTx(ctx context.Context, o *Order) error
	FetchCustomerOrders(ctx context.Context, customerID uint) ([]*Order, error)
	FetchVendorOrders(ctx context.Context, vendorID uint, limit, page int) ([]*Order, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status OrderStatus, deliveredAt *time.Time) (time.Time, error)
	GetCustomerName(ctx context.Context, userID uint) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProductForOrder(ctx context.Context, productID uint) (*OrderProduct, error) {
	var p OrderProduct
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock, vendor_id, is_active
		FROM products
		WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.VendorID, &p.IsActive)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateOrderTx persists the order, its items and the initial status-history
// entry, and decrements each product's stock with a conditional update, all
// in one transaction. A decrement that would drive stock negative (a race
// against a concurrent order) matches zero rows and aborts the whole
// transaction, so no partial state ever becomes visible.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, total_amount, status, street, city, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		o.CustomerID, o.TotalAmount, o.Status,
		o.DeliveryAddress.Street, o.DeliveryAddress.City, o.DeliveryAddress.Phone,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, vendor_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, o.ID, item.ProductID, item.ProductName, item.VendorID, item.Quantity, item.Price).
			Scan(&item.ID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, item.ProductName)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status)
		VALUES ($1, $2)
	`, o.ID, o.Status)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	o.StatusHistory = []StatusChange{{Status: o.Status, Timestamp: o.CreatedAt}}
	return nil
}

const orderColumns = `
	o.id, o.customer_id, o.total_amount, o.status,
	o.street, o.city, o.phone, o.delivered_at, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.TotalAmount, &o.Status,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.Phone,
		&o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) FetchCustomerOrders(ctx context.Context, customerID uint) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders, 0); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchVendorOrders returns orders containing at least one of the vendor's
// line items. Only the vendor's own items are attached; the caller computes
// the vendor-scoped subtotal from them.
func (r *repository) FetchVendorOrders(ctx context.Context, vendorID uint, limit, page int) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.name, u.phone
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE EXISTS (
			SELECT 1 FROM order_items i
			WHERE i.order_id = o.id AND i.vendor_id = $1
		)
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, vendorID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID, &o.CustomerID, &o.TotalAmount, &o.Status,
			&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.Phone,
			&o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
			&o.CustomerName, &o.CustomerPhone,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders, vendorID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.name
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		WHERE o.id = $1
	`, orderColumns)

	var o Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID, &o.CustomerID, &o.TotalAmount, &o.Status,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.Phone,
		&o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
		&o.CustomerName,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	orders := []*Order{&o}
	if err := r.attachItems(ctx, orders, 0); err != nil {
		return nil, err
	}

	history, err := r.fetchStatusHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.StatusHistory = history

	return &o, nil
}

// UpdateOrderStatus sets the new status and appends the history entry in one
// transaction, so the audit trail never lags the order row. It returns the
// database-assigned history timestamp so callers echo exactly what a later
// read of the history will see.
func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uint, status OrderStatus, deliveredAt *time.Time) (time.Time, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, delivered_at = COALESCE($2, delivered_at), updated_at = NOW()
		WHERE id = $3
	`, status, deliveredAt, orderID)
	if err != nil {
		return time.Time{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}
	if affected == 0 {
		return time.Time{}, ErrOrderNotFound
	}

	var changedAt time.Time
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_status_history (order_id, status)
		VALUES ($1, $2)
		RETURNING created_at
	`, orderID, status).Scan(&changedAt)
	if err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(); err != nil {
		return time.Time{}, err
	}
	return changedAt, nil
}

func (r *repository) GetCustomerName(ctx context.Context, userID uint) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id = $1`, userID,
	).Scan(&name)
	if err != nil {
		return "", err
	}
	return name, nil
}

// attachItems loads line items for the given orders. When vendorID is
// non-zero only that vendor's items are loaded, which keeps other vendors'
// lines out of vendor-facing views at the query level.
func (r *repository) attachItems(ctx context.Context, orders []*Order, vendorID uint) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uint]*Order, len(orders))
	ids := make([]interface{}, 0, len(orders))
	placeholders := ""
	for n, o := range orders {
		o.Items = []*OrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
		if n > 0 {
			placeholders += ","
		}
		placeholders += fmt.Sprintf("$%d", n+1)
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.order_id, i.product_id, i.product_name, i.vendor_id, u.name, i.quantity, i.price
		FROM order_items i
		JOIN users u ON u.id = i.vendor_id
		WHERE i.order_id IN (%s)
	`, placeholders)

	args := ids
	if vendorID != 0 {
		query += fmt.Sprintf(" AND i.vendor_id = $%d", len(args)+1)
		args = append(args, vendorID)
	}
	query += " ORDER BY i.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.VendorID, &item.VendorName, &item.Quantity, &item.Price,
		)
		if err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, &item)
		}
	}
	return rows.Err()
}

func (r *repository) fetchStatusHistory(ctx context.Context, orderID uint) ([]StatusChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at, id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.Status, &sc.Timestamp); err != nil {
			return nil, err
		}
		history = append(history, sc)
	}
	return history, rows.Err()
}
