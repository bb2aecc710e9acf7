package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/decantly/decantly-backend/pkg/db/models"
)

// ListInput carries the optional catalog filters. Text filters match
// case-insensitively as substrings; the price bounds keep a fragrance when at
// least one of its decant prices falls inside the range.
type ListInput struct {
	Search      string
	Brand       string
	ScentFamily string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Limit       int
	Offset      int
}

// PriceView is one row of a fragrance's price matrix, ordered by volume.
type PriceView struct {
	SizeID int64           `gorm:"column:size_id" json:"size_id"`
	SizeML int             `gorm:"column:size_ml" json:"size_ml"`
	Label  string          `gorm:"column:label" json:"label"`
	Price  decimal.Decimal `gorm:"column:price" json:"price"`
}

// FragranceView is the storefront projection: brand resolved to its display
// name and the full price matrix attached.
type FragranceView struct {
	ID          int64       `json:"id"`
	Brand       string      `json:"brand"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ScentFamily string      `json:"scent_family"`
	TopNotes    string      `json:"top_notes"`
	MiddleNotes string      `json:"middle_notes"`
	BaseNotes   string      `json:"base_notes"`
	ImageURL    string      `json:"image_url"`
	Prices      []PriceView `json:"prices"`
}

// ListResult is one page of fragrances plus the unpaginated match count.
type ListResult struct {
	Fragrances []FragranceView `json:"fragrances"`
	Total      int64           `json:"total"`
}

// PriceInput binds one decant size to its unit price.
type PriceInput struct {
	DecantSizeID int64           `json:"decant_size_id"`
	Price        decimal.Decimal `json:"price"`
}

// CreateInput describes a new fragrance. At least one price is required so
// every catalog entry is sellable from the moment it exists.
type CreateInput struct {
	BrandID     int64        `json:"brand_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ScentFamily string       `json:"scent_family"`
	TopNotes    string       `json:"top_notes"`
	MiddleNotes string       `json:"middle_notes"`
	BaseNotes   string       `json:"base_notes"`
	ImageURL    string       `json:"image_url"`
	Prices      []PriceInput `json:"prices"`
}

// UpdateInput is a partial update: nil fields keep their stored value. A
// non-empty Prices slice replaces the whole price matrix; nil or empty leaves
// it untouched.
type UpdateInput struct {
	BrandID     *int64       `json:"brand_id"`
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	ScentFamily *string      `json:"scent_family"`
	TopNotes    *string      `json:"top_notes"`
	MiddleNotes *string      `json:"middle_notes"`
	BaseNotes   *string      `json:"base_notes"`
	ImageURL    *string      `json:"image_url"`
	Prices      []PriceInput `json:"prices"`
}

// apply merges the set fields of the update onto the stored row. This is the
// single place partial updates are resolved.
func (in UpdateInput) apply(fragrance *models.Fragrance) {
	if in.BrandID != nil {
		fragrance.BrandID = *in.BrandID
	}
	if in.Name != nil {
		fragrance.Name = *in.Name
	}
	if in.Description != nil {
		fragrance.Description = *in.Description
	}
	if in.ScentFamily != nil {
		fragrance.ScentFamily = *in.ScentFamily
	}
	if in.TopNotes != nil {
		fragrance.TopNotes = *in.TopNotes
	}
	if in.MiddleNotes != nil {
		fragrance.MiddleNotes = *in.MiddleNotes
	}
	if in.BaseNotes != nil {
		fragrance.BaseNotes = *in.BaseNotes
	}
	if in.ImageURL != nil {
		fragrance.ImageURL = *in.ImageURL
	}
}

// Record is the flat admin-facing shape returned by create and update.
type Record struct {
	ID          int64     `json:"id"`
	BrandID     int64     `json:"brand_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ScentFamily string    `json:"scent_family"`
	TopNotes    string    `json:"top_notes"`
	MiddleNotes string    `json:"middle_notes"`
	BaseNotes   string    `json:"base_notes"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func newRecord(fragrance *models.Fragrance) *Record {
	return &Record{
		ID:          fragrance.ID,
		BrandID:     fragrance.BrandID,
		Name:        fragrance.Name,
		Description: fragrance.Description,
		ScentFamily: fragrance.ScentFamily,
		TopNotes:    fragrance.TopNotes,
		MiddleNotes: fragrance.MiddleNotes,
		BaseNotes:   fragrance.BaseNotes,
		ImageURL:    fragrance.ImageURL,
		CreatedAt:   fragrance.CreatedAt,
	}
}
