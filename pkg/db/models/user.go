package models

import "time"

// User represents a registered account, created by direct registration or by
// promoting a guest order. Shipping fields are optional saved defaults.
type User struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email         string    `gorm:"column:email;not null;uniqueIndex"`
	Name          string    `gorm:"column:name;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	AddressLine1  *string   `gorm:"column:address_line1"`
	AddressLine2  *string   `gorm:"column:address_line2"`
	City          *string   `gorm:"column:city"`
	StateProvince *string   `gorm:"column:state_province"`
	PostalCode    *string   `gorm:"column:postal_code"`
	Country       *string   `gorm:"column:country"`
	Phone         *string   `gorm:"column:phone"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
