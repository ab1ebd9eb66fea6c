package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const centsPlaces = 2

// CostBreakdown is the priced outcome of a configuration. When
// RequiresCustomQuote is set every amount is zero and the figure must be
// presented as a request for a custom quote.
type CostBreakdown struct {
	SetupFee            decimal.Decimal `json:"setupFee"`
	RecurringFee        decimal.Decimal `json:"recurringFee"`
	TrainingFee         decimal.Decimal `json:"trainingFee"`
	AddOnFee            decimal.Decimal `json:"addOnFee"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	DiscountFraction    decimal.Decimal `json:"discountFraction"`
	Total               decimal.Decimal `json:"total"`
	ContractYears       int             `json:"contractYears"`
	ContractValue       decimal.Decimal `json:"contractValue"`
	BillingPeriod       string          `json:"billingPeriod"`
	Currency            string          `json:"currency"`
	RequiresCustomQuote bool            `json:"requiresCustomQuote"`
	IsEstimate          bool            `json:"isEstimate"`
	RuleVersion         string          `json:"ruleVersion"`
}

// QuoteRecord pairs a frozen configuration with its breakdown. Records are
// never updated; a changed configuration produces a new record.
type QuoteRecord struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"createdAt"`
	Configuration Configuration `json:"configuration"`
	CostBreakdown CostBreakdown `json:"costBreakdown"`
}

// Assembler turns configurations into cost breakdowns and quote records.
type Assembler struct {
	ids      IDGenerator
	now      func() time.Time
	training TrainingRates
	currency string
	logger   *zap.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithIDGenerator sets the quote id strategy.
func WithIDGenerator(ids IDGenerator) Option {
	return func(a *Assembler) { a.ids = ids }
}

// WithClock sets the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithCurrency sets the currency code stamped on breakdowns.
func WithCurrency(code string) Option {
	return func(a *Assembler) { a.currency = code }
}

// WithLogger sets the logger used for escalation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) { a.logger = logger }
}

// NewAssembler returns an Assembler using UUIDs, the wall clock and USD
// unless overridden.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		ids:      UUIDGenerator{},
		now:      time.Now,
		training: defaultTrainingRates,
		currency: "USD",
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Price computes the cost breakdown for a configuration.
func (a *Assembler) Price(cfg Configuration) (CostBreakdown, error) {
	rule, err := cfg.rule()
	if err != nil {
		return CostBreakdown{}, err
	}
	pricer := pricerFor(rule.Family)

	raw := pricer.resolve(rule, cfg)

	discount, err := ApplyContractDiscount(raw.RecurringFee, cfg.ContractLengthYears)
	if err != nil {
		return CostBreakdown{}, err
	}

	trainingFee, err := a.training.Cost(cfg.TrainingDays, cfg.sessionType())
	if err != nil {
		return CostBreakdown{}, err
	}

	addOnFee := addOnTotal(cfg.AddOnServiceIDs)

	breakdown := CostBreakdown{
		ContractYears: cfg.ContractLengthYears,
		BillingPeriod: BillingAnnual,
		Currency:      a.currency,
		RuleVersion:   RuleTableVersion,
	}

	if pricer.escalates(rule, cfg) {
		a.logger.Debug("configuration requires custom quote",
			zap.String("family", rule.Family.String()),
			zap.String("tier", rule.Tier),
			zap.Int("users", cfg.UserCount),
			zap.Int("units", cfg.FeatureUnitCount),
		)
		breakdown.RequiresCustomQuote = true
		breakdown.IsEstimate = true
		breakdown.SetupFee = decimal.Zero
		breakdown.RecurringFee = decimal.Zero
		breakdown.TrainingFee = decimal.Zero
		breakdown.AddOnFee = decimal.Zero
		breakdown.DiscountAmount = decimal.Zero
		breakdown.DiscountFraction = decimal.Zero
		breakdown.Total = decimal.Zero
		breakdown.ContractValue = decimal.Zero
		return breakdown, nil
	}

	breakdown.SetupFee = raw.SetupFee.Round(centsPlaces)
	breakdown.RecurringFee = discount.DiscountedAnnualFee.Round(centsPlaces)
	breakdown.TrainingFee = trainingFee.Round(centsPlaces)
	breakdown.AddOnFee = addOnFee.Round(centsPlaces)
	breakdown.DiscountAmount = discount.DiscountAmount().Round(centsPlaces)
	breakdown.DiscountFraction = discount.DiscountFraction
	breakdown.ContractValue = discount.ContractValue().Round(centsPlaces)
	breakdown.Total = breakdown.SetupFee.
		Add(breakdown.RecurringFee).
		Add(breakdown.TrainingFee).
		Add(breakdown.AddOnFee)
	breakdown.IsEstimate = rule.Estimate

	return breakdown, nil
}

// Assemble prices a configuration and stamps the result as a new quote record.
func (a *Assembler) Assemble(cfg Configuration) (QuoteRecord, error) {
	breakdown, err := a.Price(cfg)
	if err != nil {
		return QuoteRecord{}, err
	}
	return QuoteRecord{
		ID:            a.ids.NewID(),
		CreatedAt:     a.now().UTC(),
		Configuration: cfg.Clone(),
		CostBreakdown: breakdown,
	}, nil
}

func addOnTotal(ids []string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range addOnSet(ids) {
		if svc, ok := LookupAddOn(id); ok {
			total = total.Add(svc.Price)
		}
	}
	return total
}
