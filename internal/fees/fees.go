package fees

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// DepositFee computes the fee owed for depositing a batch of one item:
// per-unit fee from the session rate, multiplied by quantity, reduced by the
// vendor's discount. The result is rounded to 2 decimals half-up, so
// recomputing the fee for the same inputs always yields the same amount.
func DepositFee(price decimal.Decimal, qty int, feePct, discountPct decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if qty <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	if feePct.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "fee percentage must not be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}

	perUnit := price.Mul(feePct).Div(hundred)
	batch := perUnit.Mul(decimal.NewFromInt(int64(qty)))
	fee := batch.Mul(hundred.Sub(discountPct)).Div(hundred)
	return fee.Round(2), nil
}

// Commission computes the platform's cut of a sale total at the session's
// commission rate, rounded to 2 decimals half-up.
func Commission(totalAmount, commissionPct decimal.Decimal) (decimal.Decimal, error) {
	if totalAmount.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
	}
	if commissionPct.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "commission percentage must not be negative")
	}
	return totalAmount.Mul(commissionPct).Div(hundred).Round(2), nil
}
