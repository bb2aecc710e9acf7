package guestcart

import "github.com/shopspring/decimal"

// AddLineInput carries the caller-supplied fields for an add-to-cart request.
// A zero Quantity means "one"; negative quantities are rejected.
type AddLineInput struct {
	SessionID    string
	FragranceID  int64
	DecantSizeID int64
	Quantity     int
}

// Line is one guest cart line with the denormalized display fields resolved
// from the catalog at read time.
type Line struct {
	ID            int64           `gorm:"column:id" json:"id"`
	FragranceID   int64           `gorm:"column:fragrance_id" json:"fragrance_id"`
	FragranceName string          `gorm:"column:fragrance_name" json:"fragrance_name"`
	BrandName     string          `gorm:"column:brand_name" json:"brand_name"`
	DecantSizeID  int64           `gorm:"column:decant_size_id" json:"decant_size_id"`
	SizeLabel     string          `gorm:"column:size_label" json:"size_label"`
	Quantity      int             `gorm:"column:quantity" json:"quantity"`
	PricePerItem  decimal.Decimal `gorm:"column:price_per_item" json:"price_per_item"`
	TotalPrice    decimal.Decimal `gorm:"-" json:"total_price"`
}

// Cart aggregates a session's lines with the totals the storefront renders.
type Cart struct {
	Items       []Line          `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
