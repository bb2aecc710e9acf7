package models

import "github.com/shopspring/decimal"

// FragranceDecantPrice maps a (fragrance, decant size) pair to its current
// unit price. The pair is unique; a missing row means the combination is not
// sellable.
type FragranceDecantPrice struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FragranceID  int64           `gorm:"column:fragrance_id;not null;uniqueIndex:idx_fragrance_decant_prices_pair"`
	DecantSizeID int64           `gorm:"column:decant_size_id;not null;uniqueIndex:idx_fragrance_decant_prices_pair"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}
