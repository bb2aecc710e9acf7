package guestorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/decantly/decantly-backend/pkg/db/models"
	"github.com/decantly/decantly-backend/pkg/enums"
)

// Repository exposes guest order persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.GuestOrder) error
	CreateItems(ctx context.Context, items []models.GuestOrderItem) error
	FindByID(ctx context.Context, id int64) (*models.GuestOrder, error)
	ListItemViews(ctx context.Context, guestOrderID int64) ([]ItemView, error)
	ListItems(ctx context.Context, guestOrderID int64) ([]models.GuestOrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status enums.GuestOrderStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a guest orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.GuestOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.GuestOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.GuestOrder, error) {
	var order models.GuestOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListItemViews joins the stored lines against the catalog for display names.
// Prices come from the line snapshot, not the live price table.
func (r *repository) ListItemViews(ctx context.Context, guestOrderID int64) ([]ItemView, error) {
	var items []ItemView
	err := r.db.WithContext(ctx).
		Table("guest_order_items AS goi").
		Select("f.name AS fragrance_name, b.name AS brand_name, ds.label AS size_label, goi.quantity, goi.price_per_item").
		Joins("JOIN fragrances f ON f.id = goi.fragrance_id").
		Joins("JOIN brands b ON b.id = f.brand_id").
		Joins("JOIN decant_sizes ds ON ds.id = goi.decant_size_id").
		Where("goi.guest_order_id = ?", guestOrderID).
		Order("f.name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListItems(ctx context.Context, guestOrderID int64) ([]models.GuestOrderItem, error) {
	var items []models.GuestOrderItem
	err := r.db.WithContext(ctx).
		Where("guest_order_id = ?", guestOrderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.GuestOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.GuestOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}
