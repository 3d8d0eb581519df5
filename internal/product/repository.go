package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Repository interface {
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByVendor(ctx context.Context, vendorID uint, limit, page int) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Deactivate(ctx context.Context, id, vendorID uint) error
	Categories(ctx context.Context) ([]string, error)
	Cities(ctx context.Context) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.vendor_id, p.name, p.description, p.price, p.category,
	p.stock, p.image, p.is_active, p.created_at, p.updated_at,
	u.name AS vendor_name, u.city AS vendor_city`

func scanProduct(row interface{ Scan(...interface{}) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.VendorName, &p.VendorCity,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	var (
		where = []string{"p.is_active = TRUE"}
		args  []interface{}
	)

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		where = append(where, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if opts.City != "" {
		args = append(args, opts.City)
		where = append(where, fmt.Sprintf("u.city = $%d", len(args)))
	}
	if opts.VendorID != 0 {
		args = append(args, opts.VendorID)
		where = append(where, fmt.Sprintf("p.vendor_id = $%d", len(args)))
	}

	args = append(args, opts.Limit)
	limitPos := len(args)
	args = append(args, (opts.Page-1)*opts.Limit)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.vendor_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, strings.Join(where, " AND "), limitPos, offsetPos)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.vendor_id
		WHERE p.id = $1
	`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByVendor(ctx context.Context, vendorID uint, limit, page int) ([]*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN users u ON u.id = p.vendor_id
		WHERE p.vendor_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query, vendorID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (vendor_id, name, description, price, category, stock, image, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at, updated_at
	`, p.VendorID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Image).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4,
		    stock = $5, image = $6, updated_at = NOW()
		WHERE id = $7 AND vendor_id = $8
	`, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Image, p.ID, p.VendorID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id, vendorID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND vendor_id = $2
	`, id, vendorID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM products WHERE is_active = TRUE ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT city FROM users WHERE role = 'vendor' AND city <> '' ORDER BY city
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
