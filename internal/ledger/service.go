package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/festivawin/festiva-backend/pkg/db/models"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

const (
	defaultApplyAttempts = 5
	defaultApplyBackoff  = 25 * time.Millisecond
)

// Delta carries the amounts one settlement adds to a vendor's ledger. All
// fields are increments; the service resolves them into absolute values
// against the freshest ledger row it can read.
type Delta struct {
	Fees        decimal.Decimal
	Commissions decimal.Decimal
	Gross       decimal.Decimal
	Owed        decimal.Decimal
}

// IsZero reports whether applying the delta would change nothing.
func (d Delta) IsZero() bool {
	return d.Fees.IsZero() && d.Commissions.IsZero() && d.Gross.IsZero() && d.Owed.IsZero()
}

// Service exposes vendor ledger reads and delta application.
type Service interface {
	GetByVendor(ctx context.Context, vendorID uuid.UUID) (*models.VendorLedger, error)
	ListAll(ctx context.Context) ([]models.VendorLedger, error)
	ApplyDelta(ctx context.Context, vendorID uuid.UUID, delta Delta) (*models.VendorLedger, error)
}

// Options tune the conflict retry budget.
type Options struct {
	ApplyAttempts int
	ApplyBackoff  time.Duration
}

type service struct {
	repo     Repository
	attempts int
	backoff  time.Duration
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	attempts := opts.ApplyAttempts
	if attempts <= 0 {
		attempts = defaultApplyAttempts
	}
	backoff := opts.ApplyBackoff
	if backoff <= 0 {
		backoff = defaultApplyBackoff
	}
	return &service{repo: repo, attempts: attempts, backoff: backoff}, nil
}

func (s *service) GetByVendor(ctx context.Context, vendorID uuid.UUID) (*models.VendorLedger, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.FindByVendor(ctx, vendorID)
}

func (s *service) ListAll(ctx context.Context) ([]models.VendorLedger, error) {
	return s.repo.ListAll(ctx)
}

// ApplyDelta reads the vendor's ledger, adds the delta and writes the result
// back conditionally on the version it read. A stale write never lands; on
// staleness the whole read-add-write cycle reruns against the fresh row, up
// to the configured attempt budget, after which CONFLICT surfaces to the
// caller. The ledger row is created lazily on a vendor's first settlement.
func (s *service) ApplyDelta(ctx context.Context, vendorID uuid.UUID, delta Delta) (*models.VendorLedger, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	var applied *models.VendorLedger

	backoff := retry.NewConstant(s.backoff)
	if jitter := s.backoff / 4; jitter > 0 {
		backoff = retry.WithJitter(jitter, backoff)
	}
	backoff = retry.WithMaxRetries(uint64(s.attempts-1), backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ledger, err := s.applyOnce(ctx, vendorID, delta)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
				return retry.RetryableError(err)
			}
			return err
		}
		applied = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func (s *service) applyOnce(ctx context.Context, vendorID uuid.UUID, delta Delta) (*models.VendorLedger, error) {
	ledger, err := s.repo.FindByVendor(ctx, vendorID)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		created := &models.VendorLedger{
			VendorID:         vendorID,
			AmountOwed:       decimal.Zero,
			TotalFees:        decimal.Zero,
			TotalCommissions: decimal.Zero,
			GrossProceeds:    decimal.Zero,
		}
		if cerr := s.repo.Create(ctx, created); cerr != nil {
			// A concurrent settlement created the row first; re-read and
			// continue with the existing one.
			if !pkgerrors.IsCode(cerr, pkgerrors.CodeConflict) {
				return nil, cerr
			}
			ledger, err = s.repo.FindByVendor(ctx, vendorID)
			if err != nil {
				return nil, err
			}
		} else {
			ledger = created
		}
	} else if err != nil {
		return nil, err
	}

	updated := *ledger
	updated.AmountOwed = ledger.AmountOwed.Add(delta.Owed)
	updated.TotalFees = ledger.TotalFees.Add(delta.Fees)
	updated.TotalCommissions = ledger.TotalCommissions.Add(delta.Commissions)
	updated.GrossProceeds = ledger.GrossProceeds.Add(delta.Gross)

	ok, err := s.repo.UpdateVersioned(ctx, &updated, ledger.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ledger changed since read")
	}
	updated.Version = ledger.Version + 1
	return &updated, nil
}
