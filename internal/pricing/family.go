package pricing

// ProductFamily identifies a pricing strategy shared by one or more products.
type ProductFamily string

const (
	FamilyGenericSeat       ProductFamily = "generic-seat"
	FamilyWizardStandards   ProductFamily = "wizard-standards"
	FamilyOmicsWorkflows    ProductFamily = "omics-workflows"
	FamilySelfCertStandards ProductFamily = "self-cert-standards"
	FamilySuiteTier         ProductFamily = "suite-tier"
)

// String returns the wire name of the family.
func (f ProductFamily) String() string {
	return string(f)
}

// UnitScaling reports whether the family prices by feature unit.
func (f ProductFamily) UnitScaling() bool {
	switch f {
	case FamilyWizardStandards, FamilyOmicsWorkflows, FamilySelfCertStandards:
		return true
	}
	return false
}

// SessionType scales a training block to a fraction of a full day.
type SessionType string

const (
	SessionQuarter SessionType = "quarter"
	SessionHalf    SessionType = "half"
	SessionFull    SessionType = "full"
)

// BillingAnnual is the only billing period quoted today.
const BillingAnnual = "Annual"
