package models

import "time"

// CartItem is a pending line in a registered user's cart. One row exists per
// (user, fragrance, size) triple; adds against an existing triple increment
// quantity through an atomic upsert.
type CartItem struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_cart_items_owner_line"`
	FragranceID  int64     `gorm:"column:fragrance_id;not null;uniqueIndex:idx_cart_items_owner_line"`
	DecantSizeID int64     `gorm:"column:decant_size_id;not null;uniqueIndex:idx_cart_items_owner_line"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
