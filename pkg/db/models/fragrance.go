package models

import "time"

// Fragrance is a catalog product. Rows referenced by any cart or order line
// must not be deleted; the catalog service enforces that before removal.
type Fragrance struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BrandID     int64     `gorm:"column:brand_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	ScentFamily string    `gorm:"column:scent_family;not null;default:''"`
	TopNotes    string    `gorm:"column:top_notes;not null;default:''"`
	MiddleNotes string    `gorm:"column:middle_notes;not null;default:''"`
	BaseNotes   string    `gorm:"column:base_notes;not null;default:''"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Brand *Brand `gorm:"foreignKey:BrandID"`
}
