package guestcart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decantly/decantly-backend/pkg/db/models"
)

// Repository exposes guest cart persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertLine(ctx context.Context, line *models.GuestCartItem) error
	FindLine(ctx context.Context, sessionID string, fragranceID, decantSizeID int64) (*models.GuestCartItem, error)
	FindLineByID(ctx context.Context, id int64) (*models.GuestCartItem, error)
	ListBySession(ctx context.Context, sessionID string) ([]Line, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	DeleteLine(ctx context.Context, id int64) error
	ClearSession(ctx context.Context, sessionID string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a guest cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// UpsertLine inserts the line or, when the (session, fragrance, size) triple
// already exists, increments the stored quantity by the line's quantity in a
// single statement. The unique index serializes concurrent adds for the same
// triple, so two racing calls produce one row with the summed quantity.
func (r *repository) UpsertLine(ctx context.Context, line *models.GuestCartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "session_id"},
				{Name: "fragrance_id"},
				{Name: "decant_size_id"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("quantity + ?", line.Quantity),
			}),
		}).
		Create(line).Error
}

func (r *repository) FindLine(ctx context.Context, sessionID string, fragranceID, decantSizeID int64) (*models.GuestCartItem, error) {
	var line models.GuestCartItem
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND fragrance_id = ? AND decant_size_id = ?", sessionID, fragranceID, decantSizeID).
		Take(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) FindLineByID(ctx context.Context, id int64) (*models.GuestCartItem, error) {
	var line models.GuestCartItem
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]Line, error) {
	var lines []Line
	err := r.db.WithContext(ctx).
		Table("guest_cart_items AS gci").
		Select("gci.id, f.id AS fragrance_id, f.name AS fragrance_name, b.name AS brand_name, ds.id AS decant_size_id, ds.label AS size_label, gci.quantity, fdp.price AS price_per_item").
		Joins("JOIN fragrances f ON f.id = gci.fragrance_id").
		Joins("JOIN brands b ON b.id = f.brand_id").
		Joins("JOIN decant_sizes ds ON ds.id = gci.decant_size_id").
		Joins("JOIN fragrance_decant_prices fdp ON fdp.fragrance_id = f.id AND fdp.decant_size_id = ds.id").
		Where("gci.session_id = ?", sessionID).
		Order("gci.created_at DESC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.GuestCartItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

func (r *repository) DeleteLine(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.GuestCartItem{}, "id = ?", id).Error
}

// ClearSession removes every line the session owns. Order creation calls this
// through WithTx so the clear commits with the order insert.
func (r *repository) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.GuestCartItem{}, "session_id = ?", sessionID).Error
}
