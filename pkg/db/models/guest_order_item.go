package models

import "github.com/shopspring/decimal"

// GuestOrderItem is one line of a guest order with its snapshotted unit price.
// Promotion clones these rows into OrderItems verbatim.
type GuestOrderItem struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	GuestOrderID int64           `gorm:"column:guest_order_id;not null;index"`
	FragranceID  int64           `gorm:"column:fragrance_id;not null"`
	DecantSizeID int64           `gorm:"column:decant_size_id;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	PricePerItem decimal.Decimal `gorm:"column:price_per_item;type:numeric(10,2);not null"`
}
