// Package tax holds the annual vehicle tax rate schedule.
package tax

import (
	"fmt"

	"vehicletax/internal/model"

	"github.com/shopspring/decimal"
)

// VehicleCategory enum constants
const (
	CategoryParticular = "PARTICULAR"
	CategoryMotorcycle = "MOTORCYCLE"
	CategoryPublic     = "PUBLIC"
)

// Bracket ceilings for PARTICULAR vehicles. A boundary value falls in the
// lower bracket (<= semantics).
var (
	bracketOneCeiling = decimal.NewFromInt(46_630_000)
	bracketTwoCeiling = decimal.NewFromInt(104_916_000)
)

var (
	rateLow  = decimal.NewFromFloat(0.015) // 1.5%
	rateMid  = decimal.NewFromFloat(0.025) // 2.5%
	rateHigh = decimal.NewFromFloat(0.035) // 3.5%
	ratePub  = decimal.NewFromFloat(0.005) // 0.5%
)

// Rate returns the tax rate for a vehicle category and assessed value.
// Only PARTICULAR vehicles are tiered by assessed value; MOTORCYCLE and
// PUBLIC rates are flat. An unrecognized category is rejected outright.
func Rate(category string, assessedValue decimal.Decimal) (decimal.Decimal, error) {
	switch category {
	case CategoryParticular:
		switch {
		case assessedValue.LessThanOrEqual(bracketOneCeiling):
			return rateLow, nil
		case assessedValue.LessThanOrEqual(bracketTwoCeiling):
			return rateMid, nil
		default:
			return rateHigh, nil
		}
	case CategoryMotorcycle:
		return rateLow, nil
	case CategoryPublic:
		return ratePub, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unrecognized vehicle category %q", model.ErrInvalidInput, category)
	}
}

// ValueDue computes the amount owed: the rate bracket is selected by the
// assessed value, the rate is applied to the taxable base. The two figures
// are distinct inputs and must not be conflated.
func ValueDue(category string, assessedValue, taxableBase decimal.Decimal) (decimal.Decimal, error) {
	rate, err := Rate(category, assessedValue)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Mul(taxableBase), nil
}
