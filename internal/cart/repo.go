package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decantly/decantly-backend/pkg/db/models"
)

// Repository exposes user cart persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertLine(ctx context.Context, line *models.CartItem) error
	FindLine(ctx context.Context, userID, fragranceID, decantSizeID int64) (*models.CartItem, error)
	FindScoped(ctx context.Context, userID, id int64) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID int64) ([]Line, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	DeleteScoped(ctx context.Context, userID, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a user cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// UpsertLine inserts or increments the (user, fragrance, size) line in one
// statement; the unique index makes concurrent adds converge on one row.
func (r *repository) UpsertLine(ctx context.Context, line *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "fragrance_id"},
				{Name: "decant_size_id"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("quantity + ?", line.Quantity),
			}),
		}).
		Create(line).Error
}

func (r *repository) FindLine(ctx context.Context, userID, fragranceID, decantSizeID int64) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND fragrance_id = ? AND decant_size_id = ?", userID, fragranceID, decantSizeID).
		Take(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindScoped(ctx context.Context, userID, id int64) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Line, error) {
	var lines []Line
	err := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select("ci.id, ci.fragrance_id, f.name AS fragrance_name, b.name AS brand_name, ci.decant_size_id, ds.size_ml AS size_ml, ds.label AS size_label, ci.quantity, fdp.price AS price_per_item").
		Joins("JOIN fragrances f ON f.id = ci.fragrance_id").
		Joins("JOIN brands b ON b.id = f.brand_id").
		Joins("JOIN decant_sizes ds ON ds.id = ci.decant_size_id").
		Joins("JOIN fragrance_decant_prices fdp ON fdp.fragrance_id = f.id AND fdp.decant_size_id = ds.id").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

// DeleteScoped removes a line only when the caller owns it. Deleting an id
// outside the user's cart is a silent no-op.
func (r *repository) DeleteScoped(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "id = ? AND user_id = ?", id, userID).Error
}

// DeleteByIDs removes exactly the given lines. Order creation uses this to
// clear only the lines it snapshotted, so an add racing the checkout is not
// wiped along with them.
func (r *repository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&models.CartItem{}, "id IN ?", ids).Error
}
