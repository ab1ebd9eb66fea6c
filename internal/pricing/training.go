package pricing

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

var sessionMultipliers = map[SessionType]decimal.Decimal{
	SessionQuarter: decimal.RequireFromString("0.25"),
	SessionHalf:    decimal.RequireFromString("0.5"),
	SessionFull:    decimal.NewFromInt(1),
}

// Cost prices a training block. The first day is billed at the first-day
// rate and every later day at the subsequent-day rate; the session
// multiplier scales the whole sum.
func (r TrainingRates) Cost(days int, session SessionType) (decimal.Decimal, error) {
	if days < 0 {
		return decimal.Zero, apperrors.Configuration("trainingDays", "must be >= 0")
	}
	multiplier, ok := sessionMultipliers[session]
	if !ok {
		return decimal.Zero, apperrors.Configurationf("trainingSessionType", "unknown session type %q", session)
	}
	if days == 0 {
		return decimal.Zero, nil
	}

	sum := r.FirstDay
	if days > 1 {
		sum = sum.Add(r.SubsequentDay.Mul(decimal.NewFromInt(int64(days - 1))))
	}
	return sum.Mul(multiplier), nil
}

// TrainingCost prices a training block at the published rates.
func TrainingCost(days int, session SessionType) (decimal.Decimal, error) {
	return defaultTrainingRates.Cost(days, session)
}
