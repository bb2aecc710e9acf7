package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/internal/cart"
	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
	pkgerrors "github.com/decantly/decantly-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a registered user's cart into a durable order.
type Service interface {
	CreateFromCart(ctx context.Context, userID int64) (*View, error)
}

type service struct {
	repo  Repository
	carts cart.Repository
	tx    txRunner
}

// NewService builds a user orders service with the required dependencies.
func NewService(repo Repository, carts cart.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, carts: carts, tx: tx}, nil
}

// CreateFromCart reads the cart, snapshots each line's current price into an
// order line, and clears exactly the cart lines it read — all inside one
// transaction, so a cart add racing the checkout is neither lost nor wiped.
func (s *service) CreateFromCart(ctx context.Context, userID int64) (*View, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User ID is required")
	}

	var view View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txCarts := s.carts.WithTx(tx)
		lines, err := txCarts.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty")
		}

		total := decimal.Zero
		lineIDs := make([]int64, 0, len(lines))
		items := make([]models.OrderItem, 0, len(lines))
		itemViews := make([]ItemView, 0, len(lines))
		for _, line := range lines {
			total = total.Add(line.PricePerItem.Mul(decimal.NewFromInt(int64(line.Quantity))))
			lineIDs = append(lineIDs, line.ID)
			items = append(items, models.OrderItem{
				FragranceID:  line.FragranceID,
				DecantSizeID: line.DecantSizeID,
				Quantity:     line.Quantity,
				PricePerItem: line.PricePerItem,
			})
			itemViews = append(itemViews, ItemView{
				FragranceName: line.FragranceName,
				BrandName:     line.BrandName,
				SizeLabel:     line.SizeLabel,
				Quantity:      line.Quantity,
				PricePerItem:  line.PricePerItem,
			})
		}

		order := models.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      enums.OrderStatusConfirmed,
		}
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, &order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := txRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := txCarts.DeleteByIDs(ctx, lineIDs); err != nil {
			return err
		}

		view = View{
			ID:          order.ID,
			TotalAmount: total,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
			Items:       itemViews,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return &view, nil
}
