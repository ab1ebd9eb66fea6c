package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiresCustomQuote(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
		want bool
	}{
		{name: "wizard one standard", cfg: wizardConfig(1, 3), want: false},
		{name: "wizard two standards", cfg: wizardConfig(2, 3), want: true},
		{name: "wizard 99 users", cfg: wizardConfig(1, 99), want: false},
		{name: "wizard 100 users", cfg: wizardConfig(1, 100), want: true},
		{name: "wizard integration", cfg: func() Configuration { c := wizardConfig(1, 3); c.NeedsIntegration = true; return c }(), want: true},
		{name: "wizard multi-site is not a unit-family trigger", cfg: func() Configuration { c := wizardConfig(1, 3); c.NeedsMultiSite = true; return c }(), want: false},

		{name: "self-cert three frameworks", cfg: Configuration{ProductFamily: FamilySelfCertStandards, Tier: "self-service", FeatureUnitCount: 3, UserCount: 2, ContractLengthYears: 1}, want: false},
		{name: "self-cert four frameworks", cfg: Configuration{ProductFamily: FamilySelfCertStandards, Tier: "self-service", FeatureUnitCount: 4, UserCount: 2, ContractLengthYears: 1}, want: true},
		{name: "self-cert ten users", cfg: Configuration{ProductFamily: FamilySelfCertStandards, Tier: "self-service", FeatureUnitCount: 1, UserCount: 10, ContractLengthYears: 1}, want: true},

		{name: "omics lab two workflows", cfg: Configuration{ProductFamily: FamilyOmicsWorkflows, Tier: "lab", FeatureUnitCount: 2, ContractLengthYears: 1}, want: true},

		{name: "seat team", cfg: Configuration{ProductFamily: FamilyGenericSeat, Tier: "team", UserCount: 20, ContractLengthYears: 1}, want: false},
		{name: "seat team multi-product", cfg: Configuration{ProductFamily: FamilyGenericSeat, Tier: "team", UserCount: 5, ContractLengthYears: 1, NeedsMultiProduct: true}, want: true},
		{name: "seat single-user multi-site", cfg: Configuration{ProductFamily: FamilyGenericSeat, Tier: "single-user", ContractLengthYears: 1, NeedsMultiSite: true}, want: true},
		{name: "seat business 250 users", cfg: Configuration{ProductFamily: FamilyGenericSeat, Tier: "business", UserCount: 250, ContractLengthYears: 1}, want: true},
		{name: "seat single-user has no user threshold", cfg: Configuration{ProductFamily: FamilyGenericSeat, Tier: "single-user", UserCount: 900, ContractLengthYears: 1}, want: false},

		{name: "suite essentials", cfg: Configuration{ProductFamily: FamilySuiteTier, Tier: "essentials", UserCount: 60, ContractLengthYears: 3}, want: false},
		{name: "suite essentials 100 users", cfg: Configuration{ProductFamily: FamilySuiteTier, Tier: "essentials", UserCount: 100, ContractLengthYears: 1}, want: true},
		{name: "suite multi-site", cfg: Configuration{ProductFamily: FamilySuiteTier, Tier: "professional", ContractLengthYears: 1, NeedsMultiSite: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiresCustomQuote(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
