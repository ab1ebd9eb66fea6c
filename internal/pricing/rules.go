package pricing

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

// RuleTableVersion identifies the published price list. Stored quotes carry
// it so they can be traced to the figures they were computed from.
const RuleTableVersion = "2025.1"

// UnitRate prices each feature unit beyond the free allowance, either as a
// fixed amount or as a fraction of the rule's base price.
type UnitRate struct {
	Amount         decimal.Decimal `json:"amount"`
	FractionOfBase decimal.Decimal `json:"fractionOfBase"`
}

// For returns the per-unit price for the given base price.
func (r UnitRate) For(base decimal.Decimal) decimal.Decimal {
	if !r.FractionOfBase.IsZero() {
		return base.Mul(r.FractionOfBase)
	}
	return r.Amount
}

// PricingRule holds the published figures for one tier of a product family.
// Fields that do not apply to a family are left zero. A zero escalation
// threshold disables that threshold.
type PricingRule struct {
	Family ProductFamily `json:"family"`
	Tier   string        `json:"tier"`
	Label  string        `json:"label"`

	// BasePrice is the first-unit price for unit-scaling families and the
	// annual base for suites.
	BasePrice             decimal.Decimal `json:"basePrice"`
	PerAdditionalUnitRate UnitRate        `json:"perAdditionalUnitRate"`
	FreeUnitsIncluded     int             `json:"freeUnitsIncluded"`

	// PerUserRate is annual for unit-scaling families and monthly for
	// generic-seat tiers.
	PerUserRate       decimal.Decimal `json:"perUserRate"`
	FreeUsersIncluded int             `json:"freeUsersIncluded"`

	// MinUsers is the billed seat floor for generic-seat tiers.
	MinUsers int `json:"minUsers"`

	// SetupFee is the flat one-time fee for generic-seat and suite tiers.
	SetupFee decimal.Decimal `json:"setupFee"`

	// SoftUserCap and HighUserCap are the suite multiplier steps.
	SoftUserCap int `json:"softUserCap"`
	HighUserCap int `json:"highUserCap"`

	EscalationUnitThreshold int `json:"escalationUnitThreshold"`
	EscalationUserThreshold int `json:"escalationUserThreshold"`

	// Estimate marks tiers whose instant price is always subject to revision.
	Estimate bool `json:"estimate"`
}

// FamilyInfo describes a product family and its declared tier set.
type FamilyInfo struct {
	Family ProductFamily `json:"family"`
	Label  string        `json:"label"`
	Tiers  []string      `json:"tiers"`
}

// AddOnService is an optional service with a one-time price.
type AddOnService struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// TrainingRates are the per-day training prices before the session multiplier.
type TrainingRates struct {
	FirstDay      decimal.Decimal `json:"firstDay"`
	SubsequentDay decimal.Decimal `json:"subsequentDay"`
}

type familyTable struct {
	label string
	rules []PricingRule
}

var (
	usd  = decimal.NewFromInt
	half = decimal.RequireFromString("0.5")
)

var ruleTable = map[ProductFamily]familyTable{
	FamilyGenericSeat: {
		label: "Per-seat SaaS",
		rules: []PricingRule{
			{Tier: "single-user", Label: "Single User", PerUserRate: usd(39), MinUsers: 1},
			{Tier: "team", Label: "Team", PerUserRate: usd(29), MinUsers: 5, SetupFee: usd(250), EscalationUserThreshold: 250},
			{Tier: "business", Label: "Business", PerUserRate: usd(24), MinUsers: 25, SetupFee: usd(1000), EscalationUserThreshold: 250},
			{Tier: "enterprise", Label: "Enterprise", PerUserRate: usd(19), MinUsers: 100, SetupFee: usd(2500), EscalationUserThreshold: 250, Estimate: true},
		},
	},
	FamilyWizardStandards: {
		label: "Compliance Wizard",
		rules: []PricingRule{
			{
				Tier: "standard", Label: "Standard",
				BasePrice: usd(1500), PerAdditionalUnitRate: UnitRate{FractionOfBase: half}, FreeUnitsIncluded: 1,
				PerUserRate: usd(150), FreeUsersIncluded: 3,
				EscalationUnitThreshold: 2, EscalationUserThreshold: 100,
			},
		},
	},
	FamilyOmicsWorkflows: {
		label: "Lab Omics Workflows",
		rules: []PricingRule{
			{
				Tier: "lab", Label: "Lab",
				BasePrice: usd(2500), PerAdditionalUnitRate: UnitRate{FractionOfBase: half}, FreeUnitsIncluded: 1,
				PerUserRate: usd(200), FreeUsersIncluded: 5,
				EscalationUnitThreshold: 2, EscalationUserThreshold: 100,
			},
			{
				Tier: "core-facility", Label: "Core Facility",
				BasePrice: usd(4000), PerAdditionalUnitRate: UnitRate{Amount: usd(2000)}, FreeUnitsIncluded: 1,
				PerUserRate: usd(180), FreeUsersIncluded: 10,
				EscalationUnitThreshold: 2, EscalationUserThreshold: 100,
			},
		},
	},
	// Published self-certification limits differ from the other unit
	// families: four frameworks or ten users before a custom quote.
	FamilySelfCertStandards: {
		label: "Self-Certification",
		rules: []PricingRule{
			{
				Tier: "self-service", Label: "Self-Service",
				BasePrice: usd(900), PerAdditionalUnitRate: UnitRate{Amount: usd(450)}, FreeUnitsIncluded: 1,
				PerUserRate: usd(100), FreeUsersIncluded: 2,
				EscalationUnitThreshold: 4, EscalationUserThreshold: 10,
			},
		},
	},
	FamilySuiteTier: {
		label: "Portfolio Suite",
		rules: []PricingRule{
			{Tier: "essentials", Label: "Essentials", BasePrice: usd(15000), SoftUserCap: 25, HighUserCap: 50, SetupFee: usd(2500), EscalationUserThreshold: 100},
			{Tier: "professional", Label: "Professional", BasePrice: usd(30000), SoftUserCap: 100, HighUserCap: 250, SetupFee: usd(5000), EscalationUserThreshold: 500},
			{Tier: "enterprise", Label: "Enterprise", BasePrice: usd(60000), SoftUserCap: 500, HighUserCap: 1000, SetupFee: usd(10000), EscalationUserThreshold: 2000, Estimate: true},
		},
	},
}

var familyOrder = []ProductFamily{
	FamilyGenericSeat,
	FamilyWizardStandards,
	FamilyOmicsWorkflows,
	FamilySelfCertStandards,
	FamilySuiteTier,
}

var addOnServices = []AddOnService{
	{ID: "sso-setup", Name: "Single sign-on setup", Price: usd(750)},
	{ID: "data-migration", Name: "Data migration", Price: usd(2500)},
	{ID: "dedicated-csm", Name: "Dedicated customer success manager", Price: usd(3000)},
	{ID: "audit-readiness-review", Name: "Audit readiness review", Price: usd(2000)},
	{ID: "validation-package", Name: "IQ/OQ validation package", Price: usd(3500)},
	{ID: "onboarding-workshop", Name: "Onboarding workshop", Price: usd(1000)},
}

var defaultTrainingRates = TrainingRates{
	FirstDay:      usd(1500),
	SubsequentDay: usd(1000),
}

// LookupRule returns the rule for a family's tier.
func LookupRule(family ProductFamily, tier string) (PricingRule, error) {
	table, ok := ruleTable[family]
	if !ok {
		return PricingRule{}, apperrors.Configurationf("productFamily", "unknown product family %q", family)
	}
	for _, rule := range table.rules {
		if rule.Tier == tier {
			rule.Family = family
			return rule, nil
		}
	}
	return PricingRule{}, apperrors.Configurationf("tier", "tier %q is not offered for %s", tier, family)
}

// Families lists every family with its declared tiers, in catalog order.
func Families() []FamilyInfo {
	out := make([]FamilyInfo, 0, len(familyOrder))
	for _, family := range familyOrder {
		table := ruleTable[family]
		tiers := make([]string, 0, len(table.rules))
		for _, rule := range table.rules {
			tiers = append(tiers, rule.Tier)
		}
		out = append(out, FamilyInfo{Family: family, Label: table.label, Tiers: tiers})
	}
	return out
}

// Rules returns a copy of every rule in catalog order.
func Rules() []PricingRule {
	var out []PricingRule
	for _, family := range familyOrder {
		for _, rule := range ruleTable[family].rules {
			rule.Family = family
			out = append(out, rule)
		}
	}
	return out
}

// FamilyLabel returns the display name of a family.
func FamilyLabel(family ProductFamily) string {
	if table, ok := ruleTable[family]; ok {
		return table.label
	}
	return string(family)
}

// AddOnServices returns the add-on price list.
func AddOnServices() []AddOnService {
	out := make([]AddOnService, len(addOnServices))
	copy(out, addOnServices)
	return out
}

// LookupAddOn finds an add-on service by id.
func LookupAddOn(id string) (AddOnService, bool) {
	for _, svc := range addOnServices {
		if svc.ID == id {
			return svc, true
		}
	}
	return AddOnService{}, false
}

// DefaultTrainingRates returns the published training rates.
func DefaultTrainingRates() TrainingRates {
	return defaultTrainingRates
}
