package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote is the resolved price for a sellable (fragrance, decant size) pair,
// carrying the denormalized display fields cart and order lines render with.
type Quote struct {
	FragranceID   int64           `gorm:"column:fragrance_id" json:"fragrance_id"`
	FragranceName string          `gorm:"column:fragrance_name" json:"fragrance_name"`
	BrandName     string          `gorm:"column:brand_name" json:"brand_name"`
	DecantSizeID  int64           `gorm:"column:decant_size_id" json:"decant_size_id"`
	SizeML        int             `gorm:"column:size_ml" json:"size_ml"`
	SizeLabel     string          `gorm:"column:size_label" json:"size_label"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price" json:"unit_price"`
}

// Repository exposes price resolution against the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindQuote(ctx context.Context, fragranceID, decantSizeID int64) (*Quote, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindQuote joins the price table against the catalog for one exact pair.
// A missing row means the combination is not sellable; gorm.ErrRecordNotFound
// is returned untranslated for the service layer to classify.
func (r *repository) FindQuote(ctx context.Context, fragranceID, decantSizeID int64) (*Quote, error) {
	var quote Quote
	err := r.db.WithContext(ctx).
		Table("fragrance_decant_prices AS fdp").
		Select("f.id AS fragrance_id, f.name AS fragrance_name, b.name AS brand_name, ds.id AS decant_size_id, ds.size_ml AS size_ml, ds.label AS size_label, fdp.price AS unit_price").
		Joins("JOIN fragrances f ON f.id = fdp.fragrance_id").
		Joins("JOIN brands b ON b.id = f.brand_id").
		Joins("JOIN decant_sizes ds ON ds.id = fdp.decant_size_id").
		Where("fdp.fragrance_id = ? AND fdp.decant_size_id = ?", fragranceID, decantSizeID).
		Take(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
