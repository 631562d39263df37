package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Repository manages persistence for sales and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Sale, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Sale, error)
	LinesBySale(ctx context.Context, saleID uuid.UUID) ([]models.SaleLine, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create persists the sale together with its lines in one call. A sale never
// exists without its lines, and lines never exist without their sale.
func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for i := range sale.Lines {
		if sale.Lines[i].ID == uuid.Nil {
			sale.Lines[i].ID = uuid.New()
		}
		sale.Lines[i].SaleID = sale.ID
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).Preload("Lines").First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) LinesBySale(ctx context.Context, saleID uuid.UUID) ([]models.SaleLine, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Sale{}).Where("id = ?", saleID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}

	var lines []models.SaleLine
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
