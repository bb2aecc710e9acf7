package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/decantly/decantly-backend/pkg/enums"
)

// Order is a registered user's order. The total is computed once at creation
// from the snapshotted line prices and never recomputed.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64             `gorm:"column:user_id;not null;index"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
