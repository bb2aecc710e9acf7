package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/decantly/decantly-backend/pkg/enums"
)

// GuestOrder is an order placed without an account, carrying the shipping and
// contact details inline. SaveDetailsForAccount records the opt-in consumed by
// the promotion flow; once promoted the status is the terminal account_created
// marker.
type GuestOrder struct {
	ID                    int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID             string                 `gorm:"column:session_id;not null;index"`
	Email                 string                 `gorm:"column:email;not null"`
	AddressLine1          string                 `gorm:"column:address_line1;not null"`
	AddressLine2          *string                `gorm:"column:address_line2"`
	City                  string                 `gorm:"column:city;not null"`
	StateProvince         string                 `gorm:"column:state_province;not null"`
	PostalCode            string                 `gorm:"column:postal_code;not null"`
	Country               string                 `gorm:"column:country;not null"`
	Phone                 *string                `gorm:"column:phone"`
	TotalAmount           decimal.Decimal        `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status                enums.GuestOrderStatus `gorm:"column:status;not null;default:'pending'"`
	SaveDetailsForAccount bool                   `gorm:"column:save_details_for_account;not null;default:false"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
