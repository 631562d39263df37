package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// CreateSaleInput carries everything needed to record a confirmed checkout.
type CreateSaleInput struct {
	BuyerID          uuid.UUID
	VendorID         uuid.UUID
	CommissionAmount decimal.Decimal
	TotalAmount      decimal.Decimal
	Lines            []CreateSaleLineInput
}

// CreateSaleLineInput snapshots one cart line at its cart-build price.
type CreateSaleLineInput struct {
	DepositItemID uuid.UUID
	Qty           int
	UnitPrice     decimal.Decimal
}

// Service records and reads sales. Sales are immutable after creation.
type Service interface {
	Create(ctx context.Context, input CreateSaleInput) (*models.Sale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Sale, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Sale, error)
	LinesBySale(ctx context.Context, saleID uuid.UUID) ([]models.SaleLine, error)
}

type service struct {
	repo Repository
}

// NewService wires a sales service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateSaleInput) (*models.Sale, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one line")
	}

	lineTotal := decimal.Zero
	lines := make([]models.SaleLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		if line.DepositItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line qty must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line unit price must not be negative")
		}
		lineTotal = lineTotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
		lines = append(lines, models.SaleLine{
			DepositItemID: line.DepositItemID,
			Qty:           line.Qty,
			UnitPrice:     line.UnitPrice,
		})
	}
	if !lineTotal.Equal(input.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount does not match the sum of lines")
	}

	sale := &models.Sale{
		BuyerID:          input.BuyerID,
		VendorID:         input.VendorID,
		CommissionAmount: input.CommissionAmount,
		TotalAmount:      input.TotalAmount,
		Lines:            lines,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Sale, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Sale, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *service) LinesBySale(ctx context.Context, saleID uuid.UUID) ([]models.SaleLine, error) {
	if saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	return s.repo.LinesBySale(ctx, saleID)
}
