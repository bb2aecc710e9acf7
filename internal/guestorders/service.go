package guestorders

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/guestcart"
	"github.com/decantly/decantly-backend/internal/pricing"
	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes guest order creation and lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id int64) (*View, error)
	UpdateStatus(ctx context.Context, id int64, status string) (enums.GuestOrderStatus, error)
}

type service struct {
	repo    Repository
	carts   guestcart.Repository
	pricing pricing.Service
	tx      txRunner
}

// NewService builds a guest orders service with the required dependencies.
func NewService(repo Repository, carts guestcart.Repository, pricingSvc pricing.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guest orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("guest cart repository required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, carts: carts, pricing: pricingSvc, tx: tx}, nil
}

// requiredFields pairs each mandatory payload field with its failure message.
func validateCreateInput(input CreateInput) error {
	checks := []struct {
		value   string
		message string
	}{
		{input.SessionID, "Session ID is required"},
		{input.Email, "Email is required"},
		{input.AddressLine1, "Address line 1 is required"},
		{input.City, "City is required"},
		{input.StateProvince, "State/Province is required"},
		{input.PostalCode, "Postal code is required"},
		{input.Country, "Country is required"},
	}
	for _, check := range checks {
		if strings.TrimSpace(check.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, check.message)
		}
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "At least one item is required")
	}
	return nil
}

// Create validates the payload, snapshots a unit price per requested line,
// and persists the order, its lines, and the originating cart's clear as one
// transaction. Any unresolvable (fragrance, size) pair aborts the whole
// order; partial orders are never created.
func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	total := decimal.Zero
	lines := make([]models.GuestOrderItem, 0, len(input.Items))
	views := make([]ItemView, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be greater than 0")
		}
		quote, err := s.pricing.Lookup(ctx, item.FragranceID, item.DecantSizeID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid fragrance or decant size combination")
			}
			return nil, err
		}
		total = total.Add(quote.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, models.GuestOrderItem{
			FragranceID:  item.FragranceID,
			DecantSizeID: item.DecantSizeID,
			Quantity:     item.Quantity,
			PricePerItem: quote.UnitPrice,
		})
		views = append(views, ItemView{
			FragranceName: quote.FragranceName,
			BrandName:     quote.BrandName,
			SizeLabel:     quote.SizeLabel,
			Quantity:      item.Quantity,
			PricePerItem:  quote.UnitPrice,
		})
	}

	order := models.GuestOrder{
		SessionID:             input.SessionID,
		Email:                 input.Email,
		AddressLine1:          input.AddressLine1,
		AddressLine2:          input.AddressLine2,
		City:                  input.City,
		StateProvince:         input.StateProvince,
		PostalCode:            input.PostalCode,
		Country:               input.Country,
		Phone:                 input.Phone,
		TotalAmount:           total,
		Status:                enums.GuestOrderStatusPending,
		SaveDetailsForAccount: input.SaveDetailsForAccount,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, &order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].GuestOrderID = order.ID
		}
		if err := txRepo.CreateItems(ctx, lines); err != nil {
			return err
		}
		return s.carts.WithTx(tx).ClearSession(ctx, input.SessionID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create guest order")
	}

	return newView(&order, views), nil
}

// Get returns the order with its joined line views. Reads are pure: repeated
// calls return identical data until a status update or promotion intervenes.
func (s *service) Get(ctx context.Context, id int64) (*View, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Guest order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest order")
	}
	items, err := s.repo.ListItemViews(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest order items")
	}
	return newView(order, items), nil
}

// UpdateStatus moves the order to any status in the settable enumeration.
// No transition graph is enforced between those values, with one exception:
// an order already promoted to an account carries the terminal
// account_created marker and refuses further changes. That deviation from
// the free-for-all transition model is deliberate; losing the promotion
// marker would allow a second promotion of the same order.
func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (enums.GuestOrderStatus, error) {
	parsed, err := enums.ParseGuestOrderStatus(status)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			"Invalid status. Must be one of: pending, confirmed, processing, shipped, delivered, cancelled")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "Guest order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest order")
	}

	if order.Status.IsTerminal() {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "Order status can no longer change after account promotion")
	}

	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest order status")
	}
	return parsed, nil
}
