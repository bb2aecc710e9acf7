package models

// DecantSize is a sellable volume shared across fragrances via the price table.
type DecantSize struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SizeML int    `gorm:"column:size_ml;not null;uniqueIndex"`
	Label  string `gorm:"column:label;not null"`
}
