package catalog

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/pkg/db/models"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

const defaultPageSize = 20

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the storefront catalog reads and the admin mutations.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id int64) (*FragranceView, error)
	Create(ctx context.Context, input CreateInput) (*Record, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Record, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// List returns one filtered page ordered by brand then fragrance name, plus
// the unpaginated total for the client's pager.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Limit <= 0 {
		input.Limit = defaultPageSize
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	total, err := s.repo.Count(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count fragrances")
	}

	rows, err := s.repo.ListPage(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fragrances")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	prices, err := s.repo.ListPrices(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fragrance prices")
	}

	byFragrance := make(map[int64][]PriceView, len(rows))
	for _, price := range prices {
		byFragrance[price.FragranceID] = append(byFragrance[price.FragranceID], price.PriceView)
	}

	result := ListResult{
		Fragrances: make([]FragranceView, 0, len(rows)),
		Total:      total,
	}
	for _, row := range rows {
		view := newFragranceView(row)
		view.Prices = byFragrance[row.ID]
		if view.Prices == nil {
			view.Prices = []PriceView{}
		}
		result.Fragrances = append(result.Fragrances, view)
	}
	return &result, nil
}

// Get returns one fragrance with its full price matrix ordered by volume.
func (s *service) Get(ctx context.Context, id int64) (*FragranceView, error) {
	row, err := s.repo.FindRow(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Fragrance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fragrance")
	}

	prices, err := s.repo.ListPrices(ctx, []int64{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fragrance prices")
	}

	view := newFragranceView(*row)
	view.Prices = make([]PriceView, 0, len(prices))
	for _, price := range prices {
		view.Prices = append(view.Prices, price.PriceView)
	}
	return &view, nil
}

// Create inserts a fragrance and its initial price matrix in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*Record, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name is required")
	}
	if input.BrandID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Brand ID is required")
	}
	if len(input.Prices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "At least one price must be specified")
	}

	fragrance := models.Fragrance{
		BrandID:     input.BrandID,
		Name:        input.Name,
		Description: input.Description,
		ScentFamily: input.ScentFamily,
		TopNotes:    input.TopNotes,
		MiddleNotes: input.MiddleNotes,
		BaseNotes:   input.BaseNotes,
		ImageURL:    input.ImageURL,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.BrandExists(ctx, input.BrandID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "Brand not found")
		}

		prices, err := buildPrices(ctx, repo, 0, input.Prices)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, &fragrance); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fragrance")
		}
		for i := range prices {
			prices[i].FragranceID = fragrance.ID
		}
		if err := repo.CreatePrices(ctx, prices); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create fragrance prices")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newRecord(&fragrance), nil
}

// Update applies a partial update, replacing the price matrix only when the
// request carries one.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*Record, error) {
	var updated *models.Fragrance

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		fragrance, err := repo.FindByID(ctx, id)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Fragrance not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fragrance")
		}

		if input.BrandID != nil && *input.BrandID != fragrance.BrandID {
			exists, err := repo.BrandExists(ctx, *input.BrandID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
			}
			if !exists {
				return pkgerrors.New(pkgerrors.CodeValidation, "Brand not found")
			}
		}

		input.apply(fragrance)
		if err := repo.Update(ctx, fragrance); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update fragrance")
		}

		if len(input.Prices) > 0 {
			prices, err := buildPrices(ctx, repo, id, input.Prices)
			if err != nil {
				return err
			}
			if err := repo.ReplacePrices(ctx, id, prices); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace fragrance prices")
			}
		}

		updated = fragrance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newRecord(updated), nil
}

// Delete removes a fragrance and its prices, refusing while any cart or order
// line still references it.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Fragrance not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fragrance")
		}

		references, err := repo.CountReferences(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count fragrance references")
		}
		if references > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Cannot delete fragrance that is referenced in orders or cart items")
		}

		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete fragrance")
		}
		return nil
	})
}

// buildPrices validates every decant size and shapes the rows for insert.
func buildPrices(ctx context.Context, repo Repository, fragranceID int64, inputs []PriceInput) ([]models.FragranceDecantPrice, error) {
	prices := make([]models.FragranceDecantPrice, 0, len(inputs))
	for _, price := range inputs {
		exists, err := repo.DecantSizeExists(ctx, price.DecantSizeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check decant size")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Decant size %d not found", price.DecantSizeID))
		}
		prices = append(prices, models.FragranceDecantPrice{
			FragranceID:  fragranceID,
			DecantSizeID: price.DecantSizeID,
			Price:        price.Price,
		})
	}
	return prices, nil
}

func newFragranceView(row fragranceRow) FragranceView {
	return FragranceView{
		ID:          row.ID,
		Brand:       row.BrandName,
		Name:        row.Name,
		Description: row.Description,
		ScentFamily: row.ScentFamily,
		TopNotes:    row.TopNotes,
		MiddleNotes: row.MiddleNotes,
		BaseNotes:   row.BaseNotes,
		ImageURL:    row.ImageURL,
	}
}
