package models

import "github.com/shopspring/decimal"

// OrderItem is one line of a registered user's order. PricePerItem is the
// unit price snapshotted when the order was created; later catalog price
// changes never touch it.
type OrderItem struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      int64           `gorm:"column:order_id;not null;index"`
	FragranceID  int64           `gorm:"column:fragrance_id;not null"`
	DecantSizeID int64           `gorm:"column:decant_size_id;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	PricePerItem decimal.Decimal `gorm:"column:price_per_item;type:numeric(10,2);not null"`
}
