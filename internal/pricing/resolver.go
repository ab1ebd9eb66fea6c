package pricing

import (
	"github.com/shopspring/decimal"
)

// RawBreakdown is the cost of a configuration before discounts and add-ons.
// RecurringFee is annual.
type RawBreakdown struct {
	SetupFee     decimal.Decimal `json:"setupFee"`
	RecurringFee decimal.Decimal `json:"recurringFee"`
}

// familyPricer is one product family's pricing strategy.
type familyPricer interface {
	resolve(rule PricingRule, cfg Configuration) RawBreakdown
	escalates(rule PricingRule, cfg Configuration) bool
}

// pricerFor is the single dispatch point from family to strategy. New
// families are added here and in the rule table.
func pricerFor(family ProductFamily) familyPricer {
	switch family {
	case FamilyGenericSeat:
		return seatPricer{}
	case FamilyWizardStandards, FamilyOmicsWorkflows, FamilySelfCertStandards:
		return unitPricer{}
	case FamilySuiteTier:
		return suitePricer{}
	}
	return nil
}

// Resolve computes the raw setup and annual recurring fee for a configuration.
func Resolve(cfg Configuration) (RawBreakdown, error) {
	rule, err := cfg.rule()
	if err != nil {
		return RawBreakdown{}, err
	}
	return pricerFor(rule.Family).resolve(rule, cfg), nil
}

var monthsPerYear = decimal.NewFromInt(12)

type seatPricer struct{}

func (seatPricer) resolve(rule PricingRule, cfg Configuration) RawBreakdown {
	seats := decimal.NewFromInt(int64(billedSeats(rule, cfg.UserCount)))
	return RawBreakdown{
		SetupFee:     rule.SetupFee,
		RecurringFee: seats.Mul(rule.PerUserRate).Mul(monthsPerYear),
	}
}

func (seatPricer) escalates(rule PricingRule, cfg Configuration) bool {
	return cfg.NeedsMultiProduct || cfg.NeedsMultiSite || overThreshold(cfg.UserCount, rule.EscalationUserThreshold)
}

// billedSeats raises a user count to the tier's seat minimum.
func billedSeats(rule PricingRule, users int) int {
	return max(users, rule.MinUsers)
}

type unitPricer struct{}

func (unitPricer) resolve(rule PricingRule, cfg Configuration) RawBreakdown {
	units := cfg.featureUnits()
	return RawBreakdown{
		SetupFee:     unitSetupFee(rule, units, cfg.UserCount),
		RecurringFee: unitRecurringFee(rule, units, cfg.UserCount),
	}
}

func (unitPricer) escalates(rule PricingRule, cfg Configuration) bool {
	return overThreshold(cfg.featureUnits(), rule.EscalationUnitThreshold) ||
		overThreshold(cfg.UserCount, rule.EscalationUserThreshold) ||
		cfg.NeedsIntegration
}

// unitSetupFee and unitRecurringFee are separate accumulations over the same
// published figures. They must stay separate: the setup and recurring
// schedules are allowed to diverge.
func unitSetupFee(rule PricingRule, units, users int) decimal.Decimal {
	fee := rule.BasePrice
	if extra := units - rule.FreeUnitsIncluded; extra > 0 {
		perUnit := rule.PerAdditionalUnitRate.For(rule.BasePrice)
		fee = fee.Add(perUnit.Mul(decimal.NewFromInt(int64(extra))))
	}
	if extraUsers := users - rule.FreeUsersIncluded; extraUsers > 0 {
		fee = fee.Add(rule.PerUserRate.Mul(decimal.NewFromInt(int64(extraUsers))))
	}
	return fee
}

func unitRecurringFee(rule PricingRule, units, users int) decimal.Decimal {
	fee := rule.BasePrice
	if units > rule.FreeUnitsIncluded {
		added := decimal.NewFromInt(int64(units - rule.FreeUnitsIncluded))
		fee = fee.Add(added.Mul(rule.PerAdditionalUnitRate.For(rule.BasePrice)))
	}
	if users > rule.FreeUsersIncluded {
		fee = fee.Add(rule.PerUserRate.Mul(decimal.NewFromInt(int64(users - rule.FreeUsersIncluded))))
	}
	return fee
}

type suitePricer struct{}

var (
	multiplierBase = decimal.NewFromInt(1)
	multiplierSoft = decimal.RequireFromString("1.15")
	multiplierHigh = decimal.RequireFromString("1.3")
)

func (suitePricer) resolve(rule PricingRule, cfg Configuration) RawBreakdown {
	return RawBreakdown{
		SetupFee:     rule.SetupFee,
		RecurringFee: rule.BasePrice.Mul(suiteUserMultiplier(rule, cfg.UserCount)),
	}
}

func (suitePricer) escalates(rule PricingRule, cfg Configuration) bool {
	return cfg.NeedsMultiProduct || cfg.NeedsMultiSite || overThreshold(cfg.UserCount, rule.EscalationUserThreshold)
}

// suiteUserMultiplier steps from 1.0 to 1.15 at the soft cap and to 1.3 at
// the high cap.
func suiteUserMultiplier(rule PricingRule, users int) decimal.Decimal {
	switch {
	case rule.HighUserCap > 0 && users >= rule.HighUserCap:
		return multiplierHigh
	case rule.SoftUserCap > 0 && users >= rule.SoftUserCap:
		return multiplierSoft
	default:
		return multiplierBase
	}
}

// overThreshold treats threshold as an inclusive lower bound; 0 disables it.
func overThreshold(value, threshold int) bool {
	return threshold > 0 && value >= threshold
}
