package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Repository performs conditional stock updates against deposit items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ApplyLine(ctx context.Context, lineID, itemID uuid.UUID, qty int) (*models.DepositItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ApplyLine decrements qty_available and increments qty_sold for the item,
// guarded by `qty_available >= qty` evaluated at write time. The sale line's
// stock_applied flag flips false to true inside the same transaction, so a
// line whose update already landed is recognized and skipped instead of
// decrementing twice.
func (r *repository) ApplyLine(ctx context.Context, lineID, itemID uuid.UUID, qty int) (*models.DepositItem, error) {
	var item models.DepositItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.SaleLine{}).
			Where("id = ? AND stock_applied = ?", lineID, false).
			Update("stock_applied", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			var line models.SaleLine
			if err := tx.First(&line, "id = ?", lineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "sale line not found")
				}
				return err
			}
			// Already applied: report current item state without touching stock.
			if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "deposit item not found")
				}
				return err
			}
			return nil
		}

		res := tx.Model(&models.DepositItem{}).
			Where("id = ? AND qty_available >= ?", itemID, qty).
			Updates(map[string]any{
				"qty_available": gorm.Expr("qty_available - ?", qty),
				"qty_sold":      gorm.Expr("qty_sold + ?", qty),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.DepositItem{}).Where("id = ?", itemID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return pkgerrors.New(pkgerrors.CodeNotFound, "deposit item not found")
			}
			// Rolls back the flag claim so the caller's report stays accurate.
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to cover the requested quantity")
		}

		return tx.First(&item, "id = ?", itemID).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
