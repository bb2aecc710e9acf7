package guestcart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/pkg/db/models"
)

func setupGuestCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE brands (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
		`CREATE TABLE fragrances (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  brand_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  scent_family TEXT NOT NULL DEFAULT '',
  top_notes TEXT NOT NULL DEFAULT '',
  middle_notes TEXT NOT NULL DEFAULT '',
  base_notes TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE decant_sizes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  size_ml INTEGER NOT NULL UNIQUE,
  label TEXT NOT NULL
);`,
		`CREATE TABLE fragrance_decant_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  fragrance_id INTEGER NOT NULL,
  decant_size_id INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  UNIQUE (fragrance_id, decant_size_id)
);`,
		`CREATE TABLE guest_cart_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  fragrance_id INTEGER NOT NULL,
  decant_size_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (session_id, fragrance_id, decant_size_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	require.NoError(t, db.Exec(`INSERT INTO brands (id, name) VALUES (1, 'Le Labo');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO fragrances (id, brand_id, name) VALUES (5, 1, 'Santal 33'), (6, 1, 'Rose 31');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO decant_sizes (id, size_ml, label) VALUES (1, 2, 'Sample'), (2, 5, 'Travel');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO fragrance_decant_prices (fragrance_id, decant_size_id, price) VALUES (5, 1, 13.99), (5, 2, 29.99), (6, 1, 12.99);`).Error)

	return db
}

func TestUpsertLineIncrementsExistingTriple(t *testing.T) {
	db := setupGuestCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := models.GuestCartItem{SessionID: "s1", FragranceID: 5, DecantSizeID: 1, Quantity: 2}
	require.NoError(t, repo.UpsertLine(ctx, &first))

	second := models.GuestCartItem{SessionID: "s1", FragranceID: 5, DecantSizeID: 1, Quantity: 3}
	require.NoError(t, repo.UpsertLine(ctx, &second))

	stored, err := repo.FindLine(ctx, "s1", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, 5, stored.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.GuestCartItem{}).Where("session_id = ?", "s1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestListBySessionJoinsAndOrders(t *testing.T) {
	db := setupGuestCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Exec(`INSERT INTO guest_cart_items (session_id, fragrance_id, decant_size_id, quantity, created_at)
VALUES ('s1', 5, 1, 2, '2025-01-01 10:00:00'), ('s1', 6, 1, 1, '2025-01-02 10:00:00'), ('other', 5, 2, 4, '2025-01-03 10:00:00');`).Error)

	lines, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Newest first.
	assert.Equal(t, "Rose 31", lines[0].FragranceName)
	assert.Equal(t, "Santal 33", lines[1].FragranceName)
	assert.Equal(t, "Le Labo", lines[0].BrandName)
	assert.Equal(t, "Sample", lines[0].SizeLabel)
	assert.True(t, lines[1].PricePerItem.Equal(decimal.RequireFromString("13.99")))
}

func TestClearSessionLeavesOtherSessionsAlone(t *testing.T) {
	db := setupGuestCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Exec(`INSERT INTO guest_cart_items (session_id, fragrance_id, decant_size_id, quantity)
VALUES ('s1', 5, 1, 2), ('s2', 5, 2, 1);`).Error)

	require.NoError(t, repo.ClearSession(ctx, "s1"))

	var count int64
	require.NoError(t, db.Model(&models.GuestCartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	remaining, err := repo.FindLine(ctx, "s2", 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining.Quantity)
}

func TestDeleteLineAndUpdateQuantity(t *testing.T) {
	db := setupGuestCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	line := models.GuestCartItem{SessionID: "s1", FragranceID: 5, DecantSizeID: 1, Quantity: 2}
	require.NoError(t, repo.UpsertLine(ctx, &line))

	require.NoError(t, repo.UpdateQuantity(ctx, line.ID, 7))
	stored, err := repo.FindLineByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)

	require.NoError(t, repo.DeleteLine(ctx, line.ID))
	_, err = repo.FindLineByID(ctx, line.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
