package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	u := &User{
		Name: "Ani", Email: "ani@example.com", Password: "hash",
		Role: "customer", Phone: "0812", Street: "Jl. Melati 5", City: "Bandung",
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ani", "ani@example.com", "hash", "customer", "0812", "Jl. Melati 5", "Bandung").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, uint(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "email", "password", "role",
			"phone", "street", "city", "is_active", "created_at", "updated_at",
		}).AddRow(7, "Ani", "ani@example.com", "hash", "customer", "0812", "Jl. Melati 5", "Bandung", true, now, now)

		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("ani@example.com").
			WillReturnRows(rows)

		u, err := repo.GetByEmail(context.Background(), "ani@example.com")
		require.NoError(t, err)
		assert.Equal(t, uint(7), u.ID)
		assert.True(t, u.IsActive)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_UpdateProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users`).
			WithArgs("Ani", "0812", "Jl. Melati 5", "Jakarta", uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u := &User{ID: 7, Name: "Ani", Phone: "0812", Street: "Jl. Melati 5", City: "Jakarta"}
		require.NoError(t, repo.UpdateProfile(context.Background(), u))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateProfile(context.Background(), &User{ID: 404, Name: "x"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_Vendors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("List", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "city", "phone"}).
			AddRow(7, "Toko Madu", "Bandung", "0812").
			AddRow(8, "Toko Roti", "Jakarta", "0813")

		mock.ExpectQuery(`SELECT id, name, city, phone\s+FROM users\s+WHERE role = 'vendor'`).
			WillReturnRows(rows)

		vendors, err := repo.ListVendors(context.Background())
		require.NoError(t, err)
		require.Len(t, vendors, 2)
		assert.Equal(t, "Toko Madu", vendors[0].Name)
	})

	t.Run("GetNotVendor", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, city, phone\s+FROM users\s+WHERE id = \$1 AND role = 'vendor'`).
			WithArgs(uint(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetVendor(context.Background(), 9)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
