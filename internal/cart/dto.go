package cart

import "github.com/shopspring/decimal"

// AddLineInput carries the caller-supplied fields for an add-to-cart request.
type AddLineInput struct {
	UserID       int64
	FragranceID  int64
	DecantSizeID int64
	Quantity     int
}

// Line is one user cart line with denormalized display fields. The embedded
// reference ids let order creation snapshot the line without re-reading it.
type Line struct {
	ID            int64           `gorm:"column:id" json:"id"`
	FragranceID   int64           `gorm:"column:fragrance_id" json:"fragrance_id"`
	FragranceName string          `gorm:"column:fragrance_name" json:"fragrance_name"`
	BrandName     string          `gorm:"column:brand_name" json:"brand_name"`
	DecantSizeID  int64           `gorm:"column:decant_size_id" json:"decant_size_id"`
	SizeML        int             `gorm:"column:size_ml" json:"size_ml"`
	SizeLabel     string          `gorm:"column:size_label" json:"size_label"`
	Quantity      int             `gorm:"column:quantity" json:"quantity"`
	PricePerItem  decimal.Decimal `gorm:"column:price_per_item" json:"price_per_item"`
	TotalPrice    decimal.Decimal `gorm:"-" json:"total_price"`
}

// Cart aggregates a user's lines with the total the storefront renders.
type Cart struct {
	Items       []Line          `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
