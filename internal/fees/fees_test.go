package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDepositFeeScenarios(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		qty      int
		feePct   string
		discount string
		want     string
	}{
		{"unit batch no discount", "10", 1, "10", "0", "1.00"},
		{"multi unit", "10", 3, "10", "0", "3.00"},
		{"half discount", "10", 2, "10", "50", "1.00"},
		{"full discount", "25", 4, "12", "100", "0.00"},
		{"zero fee rate", "99.99", 5, "0", "0", "0.00"},
		{"rounds half up", "33.33", 1, "5", "0", "1.67"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DepositFee(dec(tc.price), tc.qty, dec(tc.feePct), dec(tc.discount))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestDepositFeeWithoutDiscountMatchesClosedForm(t *testing.T) {
	prices := []string{"0.01", "1", "9.99", "150", "1234.56"}
	rates := []string{"0", "2.5", "10", "100"}
	qtys := []int{1, 2, 7, 40}

	for _, p := range prices {
		for _, f := range rates {
			for _, q := range qtys {
				got, err := DepositFee(dec(p), q, dec(f), decimal.Zero)
				require.NoError(t, err)
				want := dec(p).Mul(dec(f)).Div(decimal.NewFromInt(100)).
					Mul(decimal.NewFromInt(int64(q))).Round(2)
				assert.True(t, got.Equal(want), "price=%s fee=%s qty=%d: got %s want %s", p, f, q, got, want)
			}
		}
	}
}

func TestDepositFeeMonotonicity(t *testing.T) {
	base, err := DepositFee(dec("20"), 2, dec("10"), dec("10"))
	require.NoError(t, err)

	higherPrice, err := DepositFee(dec("30"), 2, dec("10"), dec("10"))
	require.NoError(t, err)
	assert.True(t, higherPrice.GreaterThanOrEqual(base), "fee must not decrease when price grows")

	higherQty, err := DepositFee(dec("20"), 3, dec("10"), dec("10"))
	require.NoError(t, err)
	assert.True(t, higherQty.GreaterThanOrEqual(base), "fee must not decrease when qty grows")

	higherDiscount, err := DepositFee(dec("20"), 2, dec("10"), dec("25"))
	require.NoError(t, err)
	assert.True(t, higherDiscount.LessThanOrEqual(base), "fee must not increase when discount grows")
}

func TestDepositFeeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		qty      int
		feePct   string
		discount string
	}{
		{"zero price", "0", 1, "10", "0"},
		{"negative price", "-5", 1, "10", "0"},
		{"zero qty", "10", 0, "10", "0"},
		{"negative qty", "10", -2, "10", "0"},
		{"negative fee", "10", 1, "-1", "0"},
		{"negative discount", "10", 1, "10", "-1"},
		{"discount above 100", "10", 1, "10", "100.01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DepositFee(dec(tc.price), tc.qty, dec(tc.feePct), dec(tc.discount))
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestCommission(t *testing.T) {
	got, err := Commission(dec("20"), dec("5"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1.00")))

	got, err = Commission(dec("0"), dec("5"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = Commission(dec("-1"), dec("5"))
	require.Error(t, err)
	_, err = Commission(dec("10"), dec("-5"))
	require.Error(t, err)
}
