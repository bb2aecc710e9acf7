package guestorders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
)

// ItemInput is one requested line of a guest checkout, by reference.
type ItemInput struct {
	FragranceID  int64 `json:"fragrance_id"`
	DecantSizeID int64 `json:"decant_size_id"`
	Quantity     int   `json:"quantity"`
}

// CreateInput carries the shipping/contact payload plus the requested items.
type CreateInput struct {
	SessionID             string
	Email                 string
	AddressLine1          string
	AddressLine2          *string
	City                  string
	StateProvince         string
	PostalCode            string
	Country               string
	Phone                 *string
	SaveDetailsForAccount bool
	Items                 []ItemInput
}

// ItemView is a denormalized order line as rendered to the caller. The unit
// price is the snapshot captured at creation time, never recomputed.
type ItemView struct {
	FragranceName string          `gorm:"column:fragrance_name" json:"fragrance_name"`
	BrandName     string          `gorm:"column:brand_name" json:"brand_name"`
	SizeLabel     string          `gorm:"column:size_label" json:"size_label"`
	Quantity      int             `gorm:"column:quantity" json:"quantity"`
	PricePerItem  decimal.Decimal `gorm:"column:price_per_item" json:"price_per_item"`
}

// View is the full guest order shape returned by Create and Get. Optional
// fields are surfaced as absent rather than empty strings.
type View struct {
	ID                    int64                  `json:"id"`
	SessionID             string                 `json:"session_id"`
	Email                 string                 `json:"email"`
	AddressLine1          string                 `json:"address_line1"`
	AddressLine2          *string                `json:"address_line2,omitempty"`
	City                  string                 `json:"city"`
	StateProvince         string                 `json:"state_province"`
	PostalCode            string                 `json:"postal_code"`
	Country               string                 `json:"country"`
	Phone                 *string                `json:"phone,omitempty"`
	TotalAmount           decimal.Decimal        `json:"total_amount"`
	Status                enums.GuestOrderStatus `json:"status"`
	SaveDetailsForAccount bool                   `json:"save_details_for_account"`
	CreatedAt             time.Time              `json:"created_at"`
	Items                 []ItemView             `json:"items"`
}

func newView(order *models.GuestOrder, items []ItemView) *View {
	return &View{
		ID:                    order.ID,
		SessionID:             order.SessionID,
		Email:                 order.Email,
		AddressLine1:          order.AddressLine1,
		AddressLine2:          presentString(order.AddressLine2),
		City:                  order.City,
		StateProvince:         order.StateProvince,
		PostalCode:            order.PostalCode,
		Country:               order.Country,
		Phone:                 presentString(order.Phone),
		TotalAmount:           order.TotalAmount,
		Status:                order.Status,
		SaveDetailsForAccount: order.SaveDetailsForAccount,
		CreatedAt:             order.CreatedAt,
		Items:                 items,
	}
}

// presentString collapses stored empty strings into absent fields.
func presentString(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
