package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/cart"
	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

type stubOrdersRepo struct {
	order  *models.Order
	items  []models.OrderItem
	nextID int64
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	s.nextID++
	order.ID = s.nextID
	copied := *order
	s.order = &copied
	return nil
}

func (s *stubOrdersRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCartReader struct {
	lines      []cart.Line
	deletedIDs []int64
}

func (s *stubCartReader) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartReader) UpsertLine(ctx context.Context, line *models.CartItem) error { return nil }

func (s *stubCartReader) FindLine(ctx context.Context, userID, fragranceID, decantSizeID int64) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartReader) FindScoped(ctx context.Context, userID, id int64) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartReader) ListByUser(ctx context.Context, userID int64) ([]cart.Line, error) {
	return s.lines, nil
}

func (s *stubCartReader) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return nil
}

func (s *stubCartReader) DeleteScoped(ctx context.Context, userID, id int64) error { return nil }

func (s *stubCartReader) DeleteByIDs(ctx context.Context, ids []int64) error {
	s.deletedIDs = append(s.deletedIDs, ids...)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestCreateFromCart(t *testing.T) {
	repo := &stubOrdersRepo{}
	carts := &stubCartReader{lines: []cart.Line{
		{ID: 11, FragranceID: 7, FragranceName: "Gypsy Water", BrandName: "Byredo", DecantSizeID: 1, SizeLabel: "Sample", Quantity: 2, PricePerItem: decimal.RequireFromString("11.99")},
		{ID: 12, FragranceID: 7, FragranceName: "Gypsy Water", BrandName: "Byredo", DecantSizeID: 3, SizeLabel: "Decant", Quantity: 1, PricePerItem: decimal.RequireFromString("44.99")},
	}}
	svc, err := NewService(repo, carts, stubTxRunner{})
	require.NoError(t, err)

	view, err := svc.CreateFromCart(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("68.97")))
	assert.Equal(t, enums.OrderStatusConfirmed, view.Status)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Sample", view.Items[0].SizeLabel)

	// Snapshots carry the looked-up prices.
	require.Len(t, repo.items, 2)
	assert.True(t, repo.items[0].PricePerItem.Equal(decimal.RequireFromString("11.99")))
	assert.Equal(t, view.ID, repo.items[0].OrderID)

	// Clears exactly the snapshotted line ids.
	assert.Equal(t, []int64{11, 12}, carts.deletedIDs)
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, &stubCartReader{}, stubTxRunner{})
	require.NoError(t, err)

	_, err = svc.CreateFromCart(context.Background(), 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Cart is empty", typed.Message())
}

func TestCreateFromCartRequiresUser(t *testing.T) {
	svc, err := NewService(&stubOrdersRepo{}, &stubCartReader{}, stubTxRunner{})
	require.NoError(t, err)

	_, err = svc.CreateFromCart(context.Background(), 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
