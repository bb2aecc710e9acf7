package cart

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/pricing"
	"github.com/decantly/decantly-backend/pkg/db/models"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

// Service exposes the user-keyed cart operations. It mirrors the guest cart
// shape with the owner key swapped for a user id and removal scoped to the
// owning user.
type Service interface {
	AddLine(ctx context.Context, input AddLineInput) (*Line, error)
	GetCart(ctx context.Context, userID int64) (*Cart, error)
	UpdateLine(ctx context.Context, userID, lineID int64, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, userID, lineID int64) error
}

type service struct {
	repo    Repository
	pricing pricing.Service
}

// NewService builds a user cart service with the required dependencies.
func NewService(repo Repository, pricingSvc pricing.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	return &service{repo: repo, pricing: pricingSvc}, nil
}

func (s *service) AddLine(ctx context.Context, input AddLineInput) (*Line, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be greater than 0")
	}

	quote, err := s.pricing.Lookup(ctx, input.FragranceID, input.DecantSizeID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid fragrance or decant size combination")
		}
		return nil, err
	}

	line := models.CartItem{
		UserID:       input.UserID,
		FragranceID:  input.FragranceID,
		DecantSizeID: input.DecantSizeID,
		Quantity:     input.Quantity,
	}
	if err := s.repo.UpsertLine(ctx, &line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}

	stored, err := s.repo.FindLine(ctx, input.UserID, input.FragranceID, input.DecantSizeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}

	return &Line{
		ID:            stored.ID,
		FragranceID:   quote.FragranceID,
		FragranceName: quote.FragranceName,
		BrandName:     quote.BrandName,
		DecantSizeID:  quote.DecantSizeID,
		SizeML:        quote.SizeML,
		SizeLabel:     quote.SizeLabel,
		Quantity:      stored.Quantity,
		PricePerItem:  quote.UnitPrice,
		TotalPrice:    quote.UnitPrice.Mul(decimal.NewFromInt(int64(stored.Quantity))),
	}, nil
}

func (s *service) GetCart(ctx context.Context, userID int64) (*Cart, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	cart := Cart{
		Items:       make([]Line, 0, len(lines)),
		TotalAmount: decimal.Zero,
	}
	for _, line := range lines {
		line.TotalPrice = line.PricePerItem.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Items = append(cart.Items, line)
		cart.TotalAmount = cart.TotalAmount.Add(line.TotalPrice)
	}
	return &cart, nil
}

// UpdateLine sets a line's quantity, scoped to the owning user. A quantity at
// or below zero deletes the row so stored quantities stay strictly positive.
func (s *service) UpdateLine(ctx context.Context, userID, lineID int64, quantity int) (*Line, error) {
	stored, err := s.repo.FindScoped(ctx, userID, lineID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if quantity <= 0 {
		if err := s.repo.DeleteScoped(ctx, userID, lineID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return nil, nil
	}

	if err := s.repo.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
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
		SizeML:        quote.SizeML,
		SizeLabel:     quote.SizeLabel,
		Quantity:      quantity,
		PricePerItem:  quote.UnitPrice,
		TotalPrice:    quote.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// RemoveLine deletes the line when the user owns it. Removing an id outside
// the user's cart succeeds without effect, matching the scoped delete.
func (s *service) RemoveLine(ctx context.Context, userID, lineID int64) error {
	if err := s.repo.DeleteScoped(ctx, userID, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}
