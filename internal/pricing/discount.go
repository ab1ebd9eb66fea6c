package pricing

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

var (
	discountTwoYears   = decimal.RequireFromString("0.10")
	discountThreeYears = decimal.RequireFromString("0.15")
)

// ContractDiscount is a multi-year discount applied to an annual fee.
type ContractDiscount struct {
	AnnualFee           decimal.Decimal `json:"annualFee"`
	DiscountedAnnualFee decimal.Decimal `json:"discountedAnnualFee"`
	DiscountFraction    decimal.Decimal `json:"discountFraction"`
	Years               int             `json:"years"`
}

// DiscountAmount is the annual saving.
func (d ContractDiscount) DiscountAmount() decimal.Decimal {
	return d.AnnualFee.Sub(d.DiscountedAnnualFee)
}

// ContractValue is the discounted fee over the whole contract.
func (d ContractDiscount) ContractValue() decimal.Decimal {
	return d.DiscountedAnnualFee.Mul(decimal.NewFromInt(int64(d.Years)))
}

// DiscountFraction returns the contract-length discount: none for one year,
// 10% for two and 15% for three or more.
func DiscountFraction(years int) decimal.Decimal {
	switch {
	case years >= 3:
		return discountThreeYears
	case years == 2:
		return discountTwoYears
	default:
		return decimal.Zero
	}
}

// ApplyContractDiscount discounts an annual recurring fee by contract length.
func ApplyContractDiscount(annualFee decimal.Decimal, years int) (ContractDiscount, error) {
	if years < 1 {
		return ContractDiscount{}, apperrors.Configuration("contractLengthYears", "must be >= 1")
	}
	fraction := DiscountFraction(years)
	return ContractDiscount{
		AnnualFee:           annualFee,
		DiscountedAnnualFee: annualFee.Mul(decimal.NewFromInt(1).Sub(fraction)),
		DiscountFraction:    fraction,
		Years:               years,
	}, nil
}
