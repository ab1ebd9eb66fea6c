package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestAssembler() *Assembler {
	return NewAssembler(
		WithIDGenerator(NewSequenceIDs("q")),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestAssembleWizardScenario(t *testing.T) {
	a := newTestAssembler()

	rec, err := a.Assemble(wizardConfig(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "q-000001", rec.ID)
	assert.Equal(t, fixedNow, rec.CreatedAt)

	b := rec.CostBreakdown
	assertMoney(t, "setupFee", "1500", b.SetupFee)
	assertMoney(t, "recurringFee", "1500", b.RecurringFee)
	assertMoney(t, "total", "3000", b.Total)
	assert.False(t, b.RequiresCustomQuote)
	assert.False(t, b.IsEstimate)
	assert.Equal(t, BillingAnnual, b.BillingPeriod)
	assert.Equal(t, RuleTableVersion, b.RuleVersion)

	rec, err = a.Assemble(wizardConfig(1, 5))
	require.NoError(t, err)
	assert.Equal(t, "q-000002", rec.ID)
	assertMoney(t, "setupFee", "1800", rec.CostBreakdown.SetupFee)
	assertMoney(t, "recurringFee", "1800", rec.CostBreakdown.RecurringFee)
}

func TestAssembleEscalationZeroesEveryAmount(t *testing.T) {
	a := newTestAssembler()

	below, err := a.Price(wizardConfig(1, 3))
	require.NoError(t, err)
	assert.False(t, below.RequiresCustomQuote)

	cfg := wizardConfig(2, 3)
	cfg.TrainingDays = 2
	cfg.AddOnServiceIDs = []string{"sso-setup"}
	cfg.ContractLengthYears = 3

	b, err := a.Price(cfg)
	require.NoError(t, err)
	assert.True(t, b.RequiresCustomQuote)
	assert.True(t, b.IsEstimate)
	for name, amount := range map[string]decimal.Decimal{
		"setupFee":       b.SetupFee,
		"recurringFee":   b.RecurringFee,
		"trainingFee":    b.TrainingFee,
		"addOnFee":       b.AddOnFee,
		"discountAmount": b.DiscountAmount,
		"contractValue":  b.ContractValue,
		"total":          b.Total,
	} {
		assert.Truef(t, amount.IsZero(), "%s = %s, want 0", name, amount)
	}
}

func TestAssembleSuiteTwoYearContract(t *testing.T) {
	b, err := newTestAssembler().Price(Configuration{
		ProductFamily:       FamilySuiteTier,
		Tier:                "essentials",
		UserCount:           10,
		ContractLengthYears: 2,
	})
	require.NoError(t, err)

	assertMoney(t, "recurringFee", "13500", b.RecurringFee)
	assertMoney(t, "discountAmount", "1500", b.DiscountAmount)
	assertMoney(t, "discountFraction", "0.10", b.DiscountFraction)
	assertMoney(t, "contractValue", "27000", b.ContractValue)
	assertMoney(t, "setupFee", "2500", b.SetupFee)
	assertMoney(t, "total", "16000", b.Total)
	assert.Equal(t, 2, b.ContractYears)
}

func TestAssembleTotalIsSumOfParts(t *testing.T) {
	a := newTestAssembler()
	configs := []Configuration{
		{ProductFamily: FamilyGenericSeat, Tier: "team", UserCount: 12, ContractLengthYears: 3, TrainingDays: 2, TrainingSessionType: SessionHalf, AddOnServiceIDs: []string{"sso-setup", "data-migration"}},
		{ProductFamily: FamilyOmicsWorkflows, Tier: "lab", UserCount: 7, FeatureUnitCount: 1, ContractLengthYears: 2, TrainingDays: 1, AddOnServiceIDs: []string{"validation-package"}},
		{ProductFamily: FamilySelfCertStandards, Tier: "self-service", UserCount: 4, FeatureUnitCount: 3, ContractLengthYears: 1, TrainingDays: 3, TrainingSessionType: SessionQuarter},
		{ProductFamily: FamilySuiteTier, Tier: "professional", UserCount: 180, ContractLengthYears: 4},
		{ProductFamily: FamilyGenericSeat, Tier: "enterprise", UserCount: 120, ContractLengthYears: 1},
	}

	for _, cfg := range configs {
		b, err := a.Price(cfg)
		require.NoError(t, err)
		require.False(t, b.RequiresCustomQuote, "%s/%s escalated", cfg.ProductFamily, cfg.Tier)

		sum := b.SetupFee.Add(b.RecurringFee).Add(b.TrainingFee).Add(b.AddOnFee)
		assert.Truef(t, b.Total.Equal(sum), "%s/%s total %s != %s", cfg.ProductFamily, cfg.Tier, b.Total, sum)
	}
}

func TestAssembleAddOnsAreASet(t *testing.T) {
	cfg := Configuration{
		ProductFamily:       FamilyGenericSeat,
		Tier:                "team",
		UserCount:           5,
		ContractLengthYears: 1,
		AddOnServiceIDs:     []string{"sso-setup", "dedicated-csm", "sso-setup"},
	}

	rec, err := newTestAssembler().Assemble(cfg)
	require.NoError(t, err)
	assertMoney(t, "addOnFee", "3750", rec.CostBreakdown.AddOnFee)
	assert.Equal(t, []string{"dedicated-csm", "sso-setup"}, rec.Configuration.AddOnServiceIDs)
	assert.Equal(t, []string{"sso-setup", "dedicated-csm", "sso-setup"}, cfg.AddOnServiceIDs, "input must not be mutated")
}

func TestAssembleIsIdempotentExceptIdentity(t *testing.T) {
	a := NewAssembler()
	cfg := Configuration{
		ProductFamily:       FamilyOmicsWorkflows,
		Tier:                "core-facility",
		UserCount:           14,
		FeatureUnitCount:    1,
		ContractLengthYears: 3,
		TrainingDays:        2,
		TrainingSessionType: SessionFull,
		AddOnServiceIDs:     []string{"onboarding-workshop"},
	}

	first, err := a.Assemble(cfg)
	require.NoError(t, err)
	second, err := a.Assemble(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.CostBreakdown, second.CostBreakdown)
	assert.Equal(t, first.Configuration, second.Configuration)
}

func TestAssembleEnterpriseTierIsEstimate(t *testing.T) {
	b, err := newTestAssembler().Price(Configuration{
		ProductFamily:       FamilyGenericSeat,
		Tier:                "enterprise",
		UserCount:           150,
		ContractLengthYears: 1,
	})
	require.NoError(t, err)
	assert.False(t, b.RequiresCustomQuote)
	assert.True(t, b.IsEstimate)
	assertMoney(t, "recurringFee", "34200", b.RecurringFee)
}

func TestAssembleRejectsInvalidConfiguration(t *testing.T) {
	_, err := newTestAssembler().Assemble(Configuration{ProductFamily: FamilyGenericSeat, Tier: "team", UserCount: -3, ContractLengthYears: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfiguration))
}

func TestPriceBoundsFeatureUnitCount(t *testing.T) {
	a := newTestAssembler()

	b, err := a.Price(wizardConfig(1000, 3))
	require.NoError(t, err)
	assert.True(t, b.RequiresCustomQuote)

	_, err = a.Price(wizardConfig(1001, 3))
	require.Error(t, err)
	e, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "featureUnitCount", e.Field)
	assert.Equal(t, "must be <= 1000", e.Message)
}

func TestSequenceIDs(t *testing.T) {
	ids := NewSequenceIDs("cart")
	assert.Equal(t, "cart-000001", ids.NewID())
	assert.Equal(t, "cart-000002", ids.NewID())
}
