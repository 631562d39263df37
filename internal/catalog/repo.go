package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	"github.com/festivawin/festiva-backend/pkg/enums"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// Availability narrows catalog listings by derived stock state.
type Availability string

const (
	AvailabilityAll     Availability = "all"
	AvailabilityInStock Availability = "in_stock"
	AvailabilitySoldOut Availability = "sold_out"
)

// IsValid reports whether the availability filter is a known value.
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAll, AvailabilityInStock, AvailabilitySoldOut:
		return true
	}
	return false
}

// ListFilter narrows the public catalog listing. A zero Limit means no cap.
type ListFilter struct {
	Query        string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Availability Availability
	Limit        int
}

// Repository manages persistence for deposit items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.DepositItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DepositItem, error)
	ListAvailable(ctx context.Context, filter ListFilter) ([]models.DepositItem, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.DepositItem, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.DepositItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DepositItem, error) {
	var item models.DepositItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deposit item not found")
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListAvailable(ctx context.Context, filter ListFilter) ([]models.DepositItem, error) {
	q := r.db.WithContext(ctx).
		Where("status = ?", enums.ItemStatusAvailable)

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.Where("name LIKE ? OR publisher LIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", filter.MaxPrice)
	}
	switch filter.Availability {
	case AvailabilityInStock:
		q = q.Where("qty_available > 0")
	case AvailabilitySoldOut:
		q = q.Where("qty_available = 0")
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []models.DepositItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.DepositItem, error) {
	var items []models.DepositItem
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("deposited_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateFields patches only the provided columns, so quantity updates landing
// through the inventory path never clobber a concurrent edit of other fields.
func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.DepositItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deposit item not found")
	}
	return nil
}
