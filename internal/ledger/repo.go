package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db"
	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Repository manages persistence for vendor ledgers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.VendorLedger, error)
	Create(ctx context.Context, ledger *models.VendorLedger) error
	UpdateVersioned(ctx context.Context, ledger *models.VendorLedger, expectedVersion int64) (bool, error)
	ListAll(ctx context.Context) ([]models.VendorLedger, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.VendorLedger, error) {
	var ledger models.VendorLedger
	err := r.db.WithContext(ctx).First(&ledger, "vendor_id = ?", vendorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor ledger not found")
		}
		return nil, err
	}
	return &ledger, nil
}

func (r *repository) Create(ctx context.Context, ledger *models.VendorLedger) error {
	if ledger.ID == uuid.Nil {
		ledger.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(ledger).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ledger already exists for vendor")
		}
		return err
	}
	return nil
}

// UpdateVersioned writes the ledger's absolute amounts conditionally on the
// version the caller read. Returns false when another writer got there first.
func (r *repository) UpdateVersioned(ctx context.Context, ledger *models.VendorLedger, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.VendorLedger{}).
		Where("id = ? AND version = ?", ledger.ID, expectedVersion).
		Updates(map[string]any{
			"amount_owed":       ledger.AmountOwed,
			"total_fees":        ledger.TotalFees,
			"total_commissions": ledger.TotalCommissions,
			"gross_proceeds":    ledger.GrossProceeds,
			"version":           expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.VendorLedger, error) {
	var ledgers []models.VendorLedger
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}
