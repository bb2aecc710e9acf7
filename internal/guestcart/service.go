package guestcart

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/pricing"
	"github.com/decantly/decantly-backend/pkg/db/models"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

// Service exposes the session-keyed guest cart operations.
type Service interface {
	AddLine(ctx context.Context, input AddLineInput) (*Line, error)
	GetCart(ctx context.Context, sessionID string) (*Cart, error)
	UpdateLine(ctx context.Context, lineID int64, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, lineID int64) error
}

type service struct {
	repo    Repository
	pricing pricing.Service
}

// NewService builds a guest cart service with the required dependencies.
func NewService(repo Repository, pricingSvc pricing.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guest cart repository required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	return &service{repo: repo, pricing: pricingSvc}, nil
}

// AddLine validates the pair against the catalog and upserts the line. Adds
// against an existing (session, fragrance, size) triple increment quantity;
// the returned line reflects the post-upsert state.
func (s *service) AddLine(ctx context.Context, input AddLineInput) (*Line, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Session ID is required")
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be greater than 0")
	}

	quote, err := s.pricing.Lookup(ctx, input.FragranceID, input.DecantSizeID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid fragrance or decant size combination")
		}
		return nil, err
	}

	line := models.GuestCartItem{
		SessionID:    input.SessionID,
		FragranceID:  input.FragranceID,
		DecantSizeID: input.DecantSizeID,
		Quantity:     quantity,
	}
	if err := s.repo.UpsertLine(ctx, &line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add guest cart line")
	}

	// Re-read to observe the post-increment quantity when the upsert hit an
	// existing row.
	stored, err := s.repo.FindLine(ctx, input.SessionID, input.FragranceID, input.DecantSizeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load guest cart line")
	}

	return &Line{
		ID:            stored.ID,
		FragranceID:   quote.FragranceID,
		FragranceName: quote.FragranceName,
		BrandName:     quote.BrandName,
		DecantSizeID:  quote.DecantSizeID,
		SizeLabel:     quote.SizeLabel,
		Quantity:      stored.Quantity,
		PricePerItem:  quote.UnitPrice,
		TotalPrice:    quote.UnitPrice.Mul(decimal.NewFromInt(int64(stored.Quantity))),
	}, nil
}

// GetCart returns the session's lines newest-first with the aggregate totals.
// An unknown session yields an empty cart, not an error.
func (s *service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guest cart")
	}

	cart := Cart{
		Items:       make([]Line, 0, len(lines)),
		TotalAmount: decimal.Zero,
	}
	for _, line := range lines {
		line.TotalPrice = line.PricePerItem.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Items = append(cart.Items, line)
		cart.TotalItems += line.Quantity
		cart.TotalAmount = cart.TotalAmount.Add(line.TotalPrice)
	}
	return &cart, nil
}

// UpdateLine sets a line's quantity. A quantity at or below zero deletes the
// row instead of retaining it, so stored quantities stay strictly positive.
func (s *service) UpdateLine(ctx context.Context, lineID int64, quantity int) (*Line, error) {
	stored, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart line")
	}

	if quantity <= 0 {
		if err := s.repo.DeleteLine(ctx, lineID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove guest cart line")
		}
		return nil, nil
	}

	if err := s.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest cart line")
	}

	quote, err := s.pricing.Lookup(ctx, stored.FragranceID, stored.DecantSizeID)
	if err != nil {
		return nil, err
	}
	return &Line{
		ID:            stored.ID,
		FragranceID:   quote.FragranceID,
		FragranceName: quote.FragranceName,
		BrandName:     quote.BrandName,
		DecantSizeID:  quote.DecantSizeID,
		SizeLabel:     quote.SizeLabel,
		Quantity:      quantity,
		PricePerItem:  quote.UnitPrice,
		TotalPrice:    quote.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// RemoveLine deletes a line by id. The lookup is deliberately not scoped by
// session: any caller holding a line id may delete it. Scoping removal to the
// owning session was considered and rejected to keep the removal contract
// identical to the storefront's existing behavior; callers must not rely on
// cross-session isolation here.
func (s *service) RemoveLine(ctx context.Context, lineID int64) error {
	if _, err := s.repo.FindLineByID(ctx, lineID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart line")
	}
	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove guest cart line")
	}
	return nil
}
