package pricing

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

// Configuration is the buyer's selection that drives a pricing computation.
// The engine only reads it.
type Configuration struct {
	ProductFamily       ProductFamily `json:"productFamily" validate:"required"`
	Tier                string        `json:"tier" validate:"required"`
	UserCount           int           `json:"userCount" validate:"gte=0,lte=1000000"`
	FeatureUnitCount    int           `json:"featureUnitCount" validate:"gte=0,lte=1000"`
	ContractLengthYears int           `json:"contractLengthYears" validate:"gte=1,lte=100"`
	TrainingDays        int           `json:"trainingDays" validate:"gte=0,lte=365"`
	TrainingSessionType SessionType   `json:"trainingSessionType,omitempty" validate:"omitempty,oneof=quarter half full"`
	AddOnServiceIDs     []string      `json:"addOnServiceIds,omitempty" validate:"dive,required"`
	NeedsMultiProduct   bool          `json:"needsMultiProduct"`
	NeedsMultiSite      bool          `json:"needsMultiSite"`
	NeedsIntegration    bool          `json:"needsIntegration"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks counts and membership of the family, tier, session type
// and add-on services. Any failure is a configuration error.
func (c Configuration) Validate() error {
	_, err := c.rule()
	return err
}

// rule validates the configuration and returns the pricing rule it selects.
func (c Configuration) rule() (PricingRule, error) {
	if err := validate.Struct(c); err != nil {
		return PricingRule{}, configurationErrorFrom(err)
	}

	rule, err := LookupRule(c.ProductFamily, c.Tier)
	if err != nil {
		return PricingRule{}, err
	}

	for _, id := range c.AddOnServiceIDs {
		if _, ok := LookupAddOn(id); !ok {
			return PricingRule{}, apperrors.Configurationf("addOnServiceIds", "unknown add-on service %q", id)
		}
	}

	return rule, nil
}

func configurationErrorFrom(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Wrap(apperrors.TypeConfiguration, "invalid configuration", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Configuration(fe.Field(), "is required")
	case "gte":
		return apperrors.Configurationf(fe.Field(), "must be >= %s", fe.Param())
	case "lte":
		return apperrors.Configurationf(fe.Field(), "must be <= %s", fe.Param())
	case "oneof":
		return apperrors.Configurationf(fe.Field(), "must be one of %s", fe.Param())
	default:
		return apperrors.Configurationf(fe.Field(), "failed %s validation", fe.Tag())
	}
}

// Clone returns a deep copy with add-on services deduplicated and sorted.
func (c Configuration) Clone() Configuration {
	out := c
	out.AddOnServiceIDs = addOnSet(c.AddOnServiceIDs)
	return out
}

// sessionType returns the configured session type, defaulting to a full day.
func (c Configuration) sessionType() SessionType {
	if c.TrainingSessionType == "" {
		return SessionFull
	}
	return c.TrainingSessionType
}

// featureUnits returns the billable unit count. Zero units bill as one.
func (c Configuration) featureUnits() int {
	if c.FeatureUnitCount < 1 {
		return 1
	}
	return c.FeatureUnitCount
}

func addOnSet(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
