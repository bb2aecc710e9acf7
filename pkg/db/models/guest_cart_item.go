package models

import "time"

// GuestCartItem is a pending line in a session-keyed guest cart. Same upsert
// semantics as CartItem, keyed by the opaque session identifier.
type GuestCartItem struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID    string    `gorm:"column:session_id;not null;uniqueIndex:idx_guest_cart_items_owner_line"`
	FragranceID  int64     `gorm:"column:fragrance_id;not null;uniqueIndex:idx_guest_cart_items_owner_line"`
	DecantSizeID int64     `gorm:"column:decant_size_id;not null;uniqueIndex:idx_guest_cart_items_owner_line"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
