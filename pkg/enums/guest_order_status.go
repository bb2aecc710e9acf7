package enums

import "fmt"

// GuestOrderStatus tracks the lifecycle of a guest order. It shares the
// fulfillment states with OrderStatus and adds the terminal marker set when
// the order has been promoted into a registered account.
type GuestOrderStatus string

const (
	GuestOrderStatusPending        GuestOrderStatus = "pending"
	GuestOrderStatusConfirmed      GuestOrderStatus = "confirmed"
	GuestOrderStatusProcessing     GuestOrderStatus = "processing"
	GuestOrderStatusShipped        GuestOrderStatus = "shipped"
	GuestOrderStatusDelivered      GuestOrderStatus = "delivered"
	GuestOrderStatusCancelled      GuestOrderStatus = "cancelled"
	GuestOrderStatusAccountCreated GuestOrderStatus = "account_created"
)

// validGuestOrderUpdateStatuses are the values callers may set through the
// status update operation. The account_created marker is excluded: it is only
// ever written by the promotion flow.
var validGuestOrderUpdateStatuses = []GuestOrderStatus{
	GuestOrderStatusPending,
	GuestOrderStatusConfirmed,
	GuestOrderStatusProcessing,
	GuestOrderStatusShipped,
	GuestOrderStatusDelivered,
	GuestOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s GuestOrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status blocks further transitions.
func (s GuestOrderStatus) IsTerminal() bool {
	return s == GuestOrderStatusAccountCreated
}

// IsValidUpdate reports whether callers may set this value directly.
func (s GuestOrderStatus) IsValidUpdate() bool {
	for _, candidate := range validGuestOrderUpdateStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGuestOrderStatus converts raw caller input into a settable status.
func ParseGuestOrderStatus(value string) (GuestOrderStatus, error) {
	for _, candidate := range validGuestOrderUpdateStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid guest order status %q", value)
}
