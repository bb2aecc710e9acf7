package catalog

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

func setupCatalogTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE cart_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  fragrance_id INTEGER NOT NULL,
  decant_size_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, fragrance_id, decant_size_id)
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
		`CREATE TABLE order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  fragrance_id INTEGER NOT NULL,
  decant_size_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  price_per_item NUMERIC NOT NULL
);`,
		`CREATE TABLE guest_order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  guest_order_id INTEGER NOT NULL,
  fragrance_id INTEGER NOT NULL,
  decant_size_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  price_per_item NUMERIC NOT NULL
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	require.NoError(t, db.Exec(`INSERT INTO brands (id, name) VALUES (1, 'Le Labo'), (2, 'Creed');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO fragrances (id, brand_id, name, description, scent_family)
VALUES (5, 1, 'Santal 33', 'Smoky sandalwood', 'Woody'),
       (6, 1, 'Rose 31', 'Spiced rose', 'Floral'),
       (7, 2, 'Aventus', 'Pineapple and birch', 'Fruity');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO decant_sizes (id, size_ml, label) VALUES (1, 2, 'Sample'), (2, 5, 'Travel');`).Error)
	require.NoError(t, db.Exec(`INSERT INTO fragrance_decant_prices (fragrance_id, decant_size_id, price)
VALUES (5, 1, 13.99), (5, 2, 29.99), (6, 1, 12.99), (7, 1, 19.99), (7, 2, 44.99);`).Error)

	return db
}

func TestListPageFiltersAndOrders(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// No filters: brand name then fragrance name.
	rows, err := repo.ListPage(ctx, ListInput{Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Aventus", rows[0].Name)
	assert.Equal(t, "Creed", rows[0].BrandName)
	assert.Equal(t, "Rose 31", rows[1].Name)
	assert.Equal(t, "Santal 33", rows[2].Name)

	// Case-insensitive search spans name, description and brand.
	rows, err = repo.ListPage(ctx, ListInput{Search: "SANDALWOOD", Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Santal 33", rows[0].Name)

	rows, err = repo.ListPage(ctx, ListInput{Brand: "creed", Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aventus", rows[0].Name)

	rows, err = repo.ListPage(ctx, ListInput{ScentFamily: "floral", Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rose 31", rows[0].Name)
}

func TestListPagePriceRange(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	min := decimal.RequireFromString("25.00")
	rows, err := repo.ListPage(ctx, ListInput{MinPrice: &min, Limit: 20})
	require.NoError(t, err)
	// Rose 31 tops out at 12.99 and drops out.
	require.Len(t, rows, 2)
	assert.Equal(t, "Aventus", rows[0].Name)
	assert.Equal(t, "Santal 33", rows[1].Name)

	max := decimal.RequireFromString("13.50")
	rows, err = repo.ListPage(ctx, ListInput{MaxPrice: &max, Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rose 31", rows[0].Name)

	total, err := repo.Count(ctx, ListInput{MinPrice: &min})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestListPricesGroupedBySize(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	prices, err := repo.ListPrices(context.Background(), []int64{5, 7})
	require.NoError(t, err)
	require.Len(t, prices, 4)

	// Ordered by fragrance then ascending volume.
	assert.Equal(t, int64(5), prices[0].FragranceID)
	assert.Equal(t, 2, prices[0].SizeML)
	assert.Equal(t, "Sample", prices[0].Label)
	assert.True(t, prices[1].Price.Equal(decimal.RequireFromString("29.99")))
	assert.Equal(t, int64(7), prices[2].FragranceID)
}

func TestCountReferencesAcrossLineTables(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	count, err := repo.CountReferences(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, db.Exec(`INSERT INTO cart_items (user_id, fragrance_id, decant_size_id, quantity) VALUES (1, 5, 1, 2);`).Error)
	require.NoError(t, db.Exec(`INSERT INTO guest_cart_items (session_id, fragrance_id, decant_size_id, quantity) VALUES ('s1', 5, 1, 1);`).Error)
	require.NoError(t, db.Exec(`INSERT INTO order_items (order_id, fragrance_id, decant_size_id, quantity, price_per_item) VALUES (1, 5, 1, 1, 13.99);`).Error)
	require.NoError(t, db.Exec(`INSERT INTO guest_order_items (guest_order_id, fragrance_id, decant_size_id, quantity, price_per_item) VALUES (1, 5, 2, 1, 29.99);`).Error)

	count, err = repo.CountReferences(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestReplacePricesSwapsMatrix(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := repo.ReplacePrices(ctx, 5, []models.FragranceDecantPrice{
		{FragranceID: 5, DecantSizeID: 2, Price: decimal.RequireFromString("34.99")},
	})
	require.NoError(t, err)

	prices, err := repo.ListPrices(ctx, []int64{5})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, int64(2), prices[0].SizeID)
	assert.True(t, prices[0].Price.Equal(decimal.RequireFromString("34.99")))
}

func TestDeleteRemovesFragranceAndPrices(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 5))

	_, err := repo.FindByID(ctx, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	prices, err := repo.ListPrices(ctx, []int64{5})
	require.NoError(t, err)
	assert.Empty(t, prices)
}
