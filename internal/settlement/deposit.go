package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/festivawin/festiva-backend/internal/catalog"
	"github.com/festivawin/festiva-backend/internal/fees"
	"github.com/festivawin/festiva-backend/internal/ledger"
	"github.com/festivawin/festiva-backend/pkg/enums"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

// SettleDeposit turns a vendor's intake batch into created catalog items and
// one ledger delta. Item creates are independent and run concurrently; the
// batch fee accumulates only from items whose create succeeded, and failed
// creates are reported individually, never auto-retried.
func (s *service) SettleDeposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	started := time.Now()

	if err := validateDepositInput(input); err != nil {
		return nil, err
	}

	// Rates are fetched once and held fixed for the whole operation.
	session, err := s.sessions.Active(ctx)
	if err != nil {
		return nil, err
	}

	itemFees := make([]decimal.Decimal, len(input.Batch))
	for i, line := range input.Batch {
		fee, err := fees.DepositFee(line.Price, line.Qty, session.DepositFeePct, line.DiscountPct)
		if err != nil {
			return nil, err
		}
		itemFees[i] = fee
	}

	result := &DepositResult{
		Items:           make([]ItemResult, len(input.Batch)),
		BatchFeeApplied: decimal.Zero,
	}

	var g errgroup.Group
	for i := range input.Batch {
		i := i
		line := input.Batch[i]
		g.Go(func() error {
			outcome := ItemResult{Index: i, Fee: itemFees[i], Outcome: enums.LineOutcomeOK}
			item, err := s.catalog.Create(ctx, catalog.CreateItemInput{
				VendorID:    input.VendorID,
				Name:        line.Name,
				Publisher:   line.Publisher,
				Price:       line.Price,
				Qty:         line.Qty,
				DiscountPct: line.DiscountPct,
				DepositFee:  itemFees[i],
			})
			if err != nil {
				outcome.Outcome = enums.LineOutcomeRemoteFailure
				if typed := pkgerrors.As(err); typed != nil {
					outcome.Message = typed.Message()
				} else {
					outcome.Message = "item create failed"
				}
			} else {
				outcome.Item = item
			}
			result.Items[i] = outcome
			return nil
		})
	}
	// Per-item errors live in the outcomes; the join never fails.
	_ = g.Wait()

	for _, item := range result.Items {
		if item.Outcome == enums.LineOutcomeOK {
			result.BatchFeeApplied = result.BatchFeeApplied.Add(item.Fee)
		}
	}

	if result.BatchFeeApplied.IsPositive() {
		delta := ledger.Delta{Fees: result.BatchFeeApplied, Owed: result.BatchFeeApplied}
		if _, err := s.ledgers.ApplyDelta(ctx, input.VendorID, delta); err != nil {
			lctx := s.logg.WithVendorID(ctx, input.VendorID.String())
			s.logg.Error(lctx, "deposit items created but ledger delta failed; needs manual reconciliation", err)
		} else {
			result.LedgerApplied = true
		}
	} else {
		result.LedgerApplied = true
	}

	s.metrics.IncSettlement("deposit", depositOutcomeLabel(result))
	s.metrics.ObserveDuration("deposit", time.Since(started))
	return result, nil
}

func depositOutcomeLabel(result *DepositResult) string {
	if !result.LedgerApplied {
		return "partial"
	}
	for _, item := range result.Items {
		if item.Outcome != enums.LineOutcomeOK {
			return "partial"
		}
	}
	return "completed"
}

// validateDepositInput checks the whole batch locally before any remote call
// is made. Fee preconditions are re-checked by the calculator itself.
func validateDepositInput(input DepositInput) error {
	var problems error
	if input.VendorID == uuid.Nil {
		problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required"))
	}
	if len(input.Batch) == 0 {
		problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "batch must not be empty"))
	}
	hundred := decimal.NewFromInt(100)
	for _, line := range input.Batch {
		if line.Name == "" {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "item name is required"))
		}
		if !line.Price.IsPositive() {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "item price must be positive"))
		}
		if line.Qty < 1 {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be at least 1"))
		}
		if line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(hundred) {
			problems = multierr.Append(problems, pkgerrors.New(pkgerrors.CodeValidation, "item discount must be between 0 and 100"))
		}
	}
	if problems != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, problems, "invalid deposit batch")
	}
	return nil
}
