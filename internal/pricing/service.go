package pricing

import (
	"context"
	stdErrors "errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

// Service resolves unit prices for (fragrance, decant size) pairs. It is the
// leaf dependency of every cart and order assembly path.
type Service interface {
	Lookup(ctx context.Context, fragranceID, decantSizeID int64) (*Quote, error)
}

type service struct {
	repo Repository
}

// NewService builds a pricing service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &service{repo: repo}, nil
}

// Lookup resolves the current unit price for the exact pair. A pair with no
// price row is not sellable and fails NotFound; callers assembling carts or
// orders translate that into their own invalid-combination failure.
func (s *service) Lookup(ctx context.Context, fragranceID, decantSizeID int64) (*Quote, error) {
	quote, err := s.repo.FindQuote(ctx, fragranceID, decantSizeID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No price is available for this fragrance and decant size")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve price")
	}
	return quote, nil
}
