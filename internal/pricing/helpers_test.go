package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertMoney(t *testing.T, name, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(decimal.RequireFromString(want)), "%s = %s, want %s", name, got, want)
}

func wizardConfig(units, users int) Configuration {
	return Configuration{
		ProductFamily:       FamilyWizardStandards,
		Tier:                "standard",
		UserCount:           users,
		FeatureUnitCount:    units,
		ContractLengthYears: 1,
	}
}
