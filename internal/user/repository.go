package user

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	ListVendors(ctx context.Context) ([]*Vendor, error)
	GetVendor(ctx context.Context, id uint) (*Vendor, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role, phone, street, city, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role, u.Phone, u.Street, u.City).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role, phone, street, city, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.Phone, &u.Street, &u.City, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role, phone, street, city, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.Phone, &u.Street, &u.City, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, phone = $2, street = $3, city = $4, updated_at = NOW()
		WHERE id = $5
	`, u.Name, u.Phone, u.Street, u.City, u.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) ListVendors(ctx context.Context) ([]*Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, city, phone
		FROM users
		WHERE role = 'vendor' AND is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.Phone); err != nil {
			return nil, err
		}
		vendors = append(vendors, &v)
	}
	return vendors, rows.Err()
}

func (r *repository) GetVendor(ctx context.Context, id uint) (*Vendor, error) {
	var v Vendor
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, city, phone
		FROM users
		WHERE id = $1 AND role = 'vendor' AND is_active = TRUE
	`, id).Scan(&v.ID, &v.Name, &v.City, &v.Phone)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
