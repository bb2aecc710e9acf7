package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/decantly/decantly-backend/pkg/enums"
)

// ItemView is one denormalized order line as rendered to the caller, carrying
// the unit price snapshotted when the order was created.
type ItemView struct {
	FragranceName string          `json:"fragrance_name"`
	BrandName     string          `json:"brand_name"`
	SizeLabel     string          `json:"size_label"`
	Quantity      int             `json:"quantity"`
	PricePerItem  decimal.Decimal `json:"price_per_item"`
}

// View is the order shape returned by checkout.
type View struct {
	ID          int64             `json:"id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []ItemView        `json:"items"`
}
