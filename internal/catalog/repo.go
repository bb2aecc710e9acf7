package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/pkg/db/models"
)

// fragranceRow is the list/get scan target with the brand name resolved.
type fragranceRow struct {
	ID          int64  `gorm:"column:id"`
	BrandName   string `gorm:"column:brand_name"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
	ScentFamily string `gorm:"column:scent_family"`
	TopNotes    string `gorm:"column:top_notes"`
	MiddleNotes string `gorm:"column:middle_notes"`
	BaseNotes   string `gorm:"column:base_notes"`
	ImageURL    string `gorm:"column:image_url"`
}

// priceRow carries one price-matrix entry keyed back to its fragrance.
type priceRow struct {
	FragranceID int64 `gorm:"column:fragrance_id"`
	PriceView
}

// Repository exposes catalog reads and the admin mutations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Count(ctx context.Context, filter ListInput) (int64, error)
	ListPage(ctx context.Context, filter ListInput) ([]fragranceRow, error)
	FindRow(ctx context.Context, id int64) (*fragranceRow, error)
	ListPrices(ctx context.Context, fragranceIDs []int64) ([]priceRow, error)
	FindByID(ctx context.Context, id int64) (*models.Fragrance, error)
	BrandExists(ctx context.Context, id int64) (bool, error)
	DecantSizeExists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, fragrance *models.Fragrance) error
	Update(ctx context.Context, fragrance *models.Fragrance) error
	CreatePrices(ctx context.Context, prices []models.FragranceDecantPrice) error
	ReplacePrices(ctx context.Context, fragranceID int64, prices []models.FragranceDecantPrice) error
	CountReferences(ctx context.Context, fragranceID int64) (int64, error)
	Delete(ctx context.Context, fragranceID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// filtered builds the joined base query with every set filter applied. The
// LOWER/LIKE form keeps matching case-insensitive on both postgres and the
// sqlite used in tests.
func (r *repository) filtered(ctx context.Context, filter ListInput) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("fragrances AS f").
		Joins("JOIN brands b ON b.id = f.brand_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(f.name) LIKE LOWER(?) OR LOWER(f.description) LIKE LOWER(?) OR LOWER(b.name) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(b.name) LIKE LOWER(?)", "%"+filter.Brand+"%")
	}
	if filter.ScentFamily != "" {
		query = query.Where("LOWER(f.scent_family) LIKE LOWER(?)", "%"+filter.ScentFamily+"%")
	}

	priceWhere := ""
	priceArgs := []any{}
	if filter.MinPrice != nil {
		priceWhere += " AND fdp.price >= ?"
		priceArgs = append(priceArgs, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		priceWhere += " AND fdp.price <= ?"
		priceArgs = append(priceArgs, *filter.MaxPrice)
	}
	if priceWhere != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM fragrance_decant_prices fdp WHERE fdp.fragrance_id = f.id"+priceWhere+")",
			priceArgs...,
		)
	}
	return query
}

func (r *repository) Count(ctx context.Context, filter ListInput) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *repository) ListPage(ctx context.Context, filter ListInput) ([]fragranceRow, error) {
	var rows []fragranceRow
	err := r.filtered(ctx, filter).
		Select("f.id, b.name AS brand_name, f.name, f.description, f.scent_family, f.top_notes, f.middle_notes, f.base_notes, f.image_url").
		Order("b.name, f.name").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindRow(ctx context.Context, id int64) (*fragranceRow, error) {
	var row fragranceRow
	err := r.db.WithContext(ctx).
		Table("fragrances AS f").
		Joins("JOIN brands b ON b.id = f.brand_id").
		Select("f.id, b.name AS brand_name, f.name, f.description, f.scent_family, f.top_notes, f.middle_notes, f.base_notes, f.image_url").
		Where("f.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListPrices(ctx context.Context, fragranceIDs []int64) ([]priceRow, error) {
	if len(fragranceIDs) == 0 {
		return nil, nil
	}
	var rows []priceRow
	err := r.db.WithContext(ctx).
		Table("fragrance_decant_prices AS fdp").
		Joins("JOIN decant_sizes ds ON ds.id = fdp.decant_size_id").
		Select("fdp.fragrance_id, ds.id AS size_id, ds.size_ml AS size_ml, ds.label AS label, fdp.price AS price").
		Where("fdp.fragrance_id IN ?", fragranceIDs).
		Order("fdp.fragrance_id, ds.size_ml").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Fragrance, error) {
	var fragrance models.Fragrance
	if err := r.db.WithContext(ctx).Take(&fragrance, id).Error; err != nil {
		return nil, err
	}
	return &fragrance, nil
}

func (r *repository) BrandExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) DecantSizeExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DecantSize{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, fragrance *models.Fragrance) error {
	return r.db.WithContext(ctx).Create(fragrance).Error
}

func (r *repository) Update(ctx context.Context, fragrance *models.Fragrance) error {
	return r.db.WithContext(ctx).Save(fragrance).Error
}

func (r *repository) CreatePrices(ctx context.Context, prices []models.FragranceDecantPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&prices).Error
}

// ReplacePrices swaps the whole price matrix for a fragrance.
func (r *repository) ReplacePrices(ctx context.Context, fragranceID int64, prices []models.FragranceDecantPrice) error {
	if err := r.db.WithContext(ctx).
		Where("fragrance_id = ?", fragranceID).
		Delete(&models.FragranceDecantPrice{}).Error; err != nil {
		return err
	}
	return r.CreatePrices(ctx, prices)
}

// CountReferences sums the cart and order lines pointing at the fragrance
// across all four line tables. Deletion is refused while this is non-zero.
func (r *repository) CountReferences(ctx context.Context, fragranceID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM order_items WHERE fragrance_id = ?) +
			(SELECT COUNT(*) FROM cart_items WHERE fragrance_id = ?) +
			(SELECT COUNT(*) FROM guest_order_items WHERE fragrance_id = ?) +
			(SELECT COUNT(*) FROM guest_cart_items WHERE fragrance_id = ?)`,
		fragranceID, fragranceID, fragranceID, fragranceID,
	).Scan(&total).Error
	return total, err
}

// Delete removes the fragrance and its price matrix. Prices go first to keep
// the foreign keys satisfied.
func (r *repository) Delete(ctx context.Context, fragranceID int64) error {
	if err := r.db.WithContext(ctx).
		Where("fragrance_id = ?", fragranceID).
		Delete(&models.FragranceDecantPrice{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Fragrance{}, fragranceID).Error
}
