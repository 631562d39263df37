package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	"github.com/festivawin/festiva-backend/pkg/enums"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// CreateItemInput carries the fields needed to list a deposited game.
type CreateItemInput struct {
	VendorID    uuid.UUID
	Name        string
	Publisher   string
	Price       decimal.Decimal
	Qty         int
	DiscountPct decimal.Decimal
	DepositFee  decimal.Decimal
}

// PatchItemInput updates only the fields that are set. Quantity edits here
// are administrative; sale-driven stock movement goes through inventory.
type PatchItemInput struct {
	Name         *string
	Publisher    *string
	Price        *decimal.Decimal
	QtyAvailable *int
	DiscountPct  *decimal.Decimal
}

// Service manages the deposit-item catalog.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.DepositItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.DepositItem, error)
	ListAvailable(ctx context.Context, filter ListFilter) ([]models.DepositItem, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.DepositItem, error)
	Patch(ctx context.Context, vendorID, id uuid.UUID, input PatchItemInput) (*models.DepositItem, error)
	SoftDelete(ctx context.Context, vendorID, id uuid.UUID) error
	Restore(ctx context.Context, vendorID, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.DepositItem, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	item := &models.DepositItem{
		VendorID:     input.VendorID,
		Name:         input.Name,
		Publisher:    input.Publisher,
		Price:        input.Price,
		QtyAvailable: input.Qty,
		Status:       enums.ItemStatusAvailable,
		DepositFee:   input.DepositFee,
		DiscountPct:  input.DiscountPct,
		DepositedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.DepositItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListAvailable(ctx context.Context, filter ListFilter) ([]models.DepositItem, error) {
	if filter.Availability != "" && !filter.Availability.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown availability filter")
	}
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not be negative")
	}
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_price must not be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price must not exceed max_price")
	}
	return s.repo.ListAvailable(ctx, filter)
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.DepositItem, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *service) Patch(ctx context.Context, vendorID, id uuid.UUID, input PatchItemInput) (*models.DepositItem, error) {
	item, err := s.ownedItem(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Publisher != nil {
		fields["publisher"] = *input.Publisher
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		fields["price"] = *input.Price
	}
	if input.QtyAvailable != nil {
		if *input.QtyAvailable < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty_available must not be negative")
		}
		fields["qty_available"] = *input.QtyAvailable
	}
	if input.DiscountPct != nil {
		if input.DiscountPct.IsNegative() || input.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_pct must be between 0 and 100")
		}
		fields["discount_pct"] = *input.DiscountPct
	}
	if len(fields) == 0 {
		return item, nil
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) SoftDelete(ctx context.Context, vendorID, id uuid.UUID) error {
	if _, err := s.ownedItem(ctx, vendorID, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, map[string]any{"status": enums.ItemStatusRemoved})
}

func (s *service) Restore(ctx context.Context, vendorID, id uuid.UUID) error {
	if _, err := s.ownedItem(ctx, vendorID, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, map[string]any{"status": enums.ItemStatusAvailable})
}

func (s *service) ownedItem(ctx context.Context, vendorID, id uuid.UUID) (*models.DepositItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendorID != uuid.Nil && item.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item belongs to another vendor")
	}
	return item, nil
}
