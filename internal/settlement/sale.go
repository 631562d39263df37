package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/festivawin/festiva-backend/internal/fees"
	"github.com/festivawin/festiva-backend/internal/ledger"
	"github.com/festivawin/festiva-backend/internal/sales"
	"github.com/festivawin/festiva-backend/pkg/enums"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// SettleSale turns a buyer's cart into a sale record, per-line stock updates
// and one vendor ledger delta.
//
// Cancellation is honored only until the sale is created. Once it exists the
// remaining phases run on a detached context: the recorded sale, not stock
// bookkeeping, is the source of truth for money owed, so the ledger delta is
// applied even when some lines lose their stock race.
func (s *service) SettleSale(ctx context.Context, input SaleInput) (*SaleResult, error) {
	started := time.Now()

	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	// Rates are fetched once and held fixed for the whole operation.
	session, err := s.sessions.Active(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount := decimal.Zero
	for _, line := range input.Cart {
		totalAmount = totalAmount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	totalAmount = totalAmount.Round(2)

	commissionAmount, err := fees.Commission(totalAmount, session.CommissionPct)
	if err != nil {
		return nil, err
	}

	// Last point at which cancelling has no side effects.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saleLines := make([]sales.CreateSaleLineInput, 0, len(input.Cart))
	for _, line := range input.Cart {
		saleLines = append(saleLines, sales.CreateSaleLineInput{
			DepositItemID: line.DepositItemID,
			Qty:           line.Qty,
			UnitPrice:     line.UnitPrice,
		})
	}

	sale, err := s.sales.Create(ctx, sales.CreateSaleInput{
		BuyerID:          input.BuyerID,
		VendorID:         input.VendorID,
		CommissionAmount: commissionAmount,
		TotalAmount:      totalAmount,
		Lines:            saleLines,
	})
	if err != nil {
		// Nothing else is attempted: no stock moved, no ledger touched.
		s.observeSale(ctx, started, "failed")
		return nil, err
	}

	// The sale exists now; run stock and ledger to completion regardless of
	// what happens to the caller's context.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.completionTimeout)
	defer cancel()

	result := &SaleResult{Sale: sale, Lines: make([]LineResult, len(sale.Lines))}

	var g errgroup.Group
	for i := range sale.Lines {
		line := sale.Lines[i]
		g.Go(func() error {
			outcome := LineResult{
				LineID:        line.ID,
				DepositItemID: line.DepositItemID,
				Qty:           line.Qty,
				Outcome:       enums.LineOutcomeOK,
			}
			if _, err := s.stock.ReserveAndSell(dctx, line.ID, line.DepositItemID, line.Qty); err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
					outcome.Outcome = enums.LineOutcomeInsufficientStock
				} else {
					outcome.Outcome = enums.LineOutcomeRemoteFailure
				}
				if typed := pkgerrors.As(err); typed != nil {
					outcome.Message = typed.Message()
				} else {
					outcome.Message = "stock update failed"
				}
			}
			s.metrics.IncLine(outcome.Outcome.String())
			result.Lines[i] = outcome
			return nil
		})
	}
	// Per-line errors are captured in outcomes, never propagated.
	_ = g.Wait()

	delta := ledger.Delta{
		Commissions: commissionAmount,
		Gross:       totalAmount,
		Owed:        commissionAmount,
	}
	if _, err := s.ledgers.ApplyDelta(dctx, input.VendorID, delta); err != nil {
		lctx := s.logg.WithFields(dctx, map[string]any{
			"sale_id":   sale.ID.String(),
			"vendor_id": input.VendorID.String(),
		})
		s.logg.Error(lctx, "sale settled but ledger delta failed; needs manual reconciliation", err)
	} else {
		result.LedgerApplied = true
	}

	s.observeSale(ctx, started, saleOutcomeLabel(result))
	return result, nil
}

func (s *service) observeSale(ctx context.Context, started time.Time, outcome string) {
	s.metrics.IncSettlement("sale", outcome)
	s.metrics.ObserveDuration("sale", time.Since(started))
}

func saleOutcomeLabel(result *SaleResult) string {
	if !result.LedgerApplied {
		return "partial"
	}
	for _, line := range result.Lines {
		if line.Outcome != enums.LineOutcomeOK {
			return "partial"
		}
	}
	return "completed"
}

func validateSaleInput(input SaleInput) error {
	var problems error
	if input.BuyerID == uuid.Nil {
		problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required"))
	}
	if input.VendorID == uuid.Nil {
		problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required"))
	}
	if len(input.Cart) == 0 {
		problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "cart must not be empty"))
	}
	for _, line := range input.Cart {
		if line.DepositItemID == uuid.Nil {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "cart line item id is required"))
		}
		if line.Qty < 1 {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "cart line qty must be at least 1"))
		}
		if line.UnitPrice.IsNegative() {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "cart line unit price must not be negative"))
		}
	}
	if problems != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, problems, "invalid checkout request")
	}
	return nil
}
