// Package export renders stored quote records as downloadable documents.
// Renderers only read the stored breakdown; they never reprice.
package export

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/shopspring/decimal"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

// Document is a rendered quote.
type Document struct {
	ContentType string
	FileName    string
	Body        []byte
}

// Exporter renders a quote record into a document.
type Exporter interface {
	Render(record pricing.QuoteRecord) (Document, error)
}

// Format names an export format.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ForFormat returns the exporter for a format name. An empty name selects text.
func ForFormat(name string) (Exporter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatPDF:
		return PDFRenderer{}, nil
	case FormatXLSX:
		return XLSXRenderer{}, nil
	}
	return nil, apperrors.Configurationf("format", "unsupported export format %q", name)
}

const customQuoteNotice = "Custom quote required"

type line struct {
	Label  string
	Value  string
	Amount decimal.Decimal
}

// summary is the format-neutral content shared by every renderer.
type summary struct {
	Title    string
	Created  string
	Details  []line
	Charges  []line
	Total    line
	Notes    []string
	Currency string
	Custom   bool
}

func summarize(record pricing.QuoteRecord) (summary, error) {
	if record.ID == "" {
		return summary{}, apperrors.Render("quote record has no id", nil)
	}

	cfg := record.Configuration
	b := record.CostBreakdown

	s := summary{
		Title:    "Quote " + record.ID,
		Created:  record.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		Currency: b.Currency,
		Custom:   b.RequiresCustomQuote,
	}

	s.Details = append(s.Details,
		line{Label: "Product", Value: productName(cfg)},
		line{Label: "Users", Value: humanize.Comma(int64(cfg.UserCount))},
	)
	if cfg.ProductFamily.UnitScaling() {
		units := cfg.FeatureUnitCount
		if units < 1 {
			units = 1
		}
		s.Details = append(s.Details, line{Label: "Feature units", Value: humanize.Comma(int64(units))})
	}
	s.Details = append(s.Details, line{Label: "Contract", Value: english.Plural(cfg.ContractLengthYears, "year", "")})
	if cfg.TrainingDays > 0 {
		session := cfg.TrainingSessionType
		if session == "" {
			session = pricing.SessionFull
		}
		s.Details = append(s.Details, line{
			Label: "Training",
			Value: fmt.Sprintf("%s, %s-day sessions", english.Plural(cfg.TrainingDays, "day", ""), session),
		})
	}
	if len(cfg.AddOnServiceIDs) > 0 {
		s.Details = append(s.Details, line{Label: "Add-on services", Value: addOnNames(cfg.AddOnServiceIDs)})
	}

	if b.RequiresCustomQuote {
		s.Notes = append(s.Notes, customQuoteNotice+": our team will prepare pricing for this configuration.")
		return s, nil
	}

	s.Charges = []line{
		{Label: "One-time setup", Amount: b.SetupFee},
		{Label: "Recurring (" + strings.ToLower(b.BillingPeriod) + ")", Amount: b.RecurringFee},
	}
	if b.DiscountAmount.IsPositive() {
		pct := b.DiscountFraction.Mul(decimal.NewFromInt(100)).StringFixed(0)
		s.Charges = append(s.Charges, line{Label: "Contract discount (" + pct + "%, included)", Amount: b.DiscountAmount.Neg()})
	}
	if b.TrainingFee.IsPositive() {
		s.Charges = append(s.Charges, line{Label: "Training", Amount: b.TrainingFee})
	}
	if b.AddOnFee.IsPositive() {
		s.Charges = append(s.Charges, line{Label: "Add-on services", Amount: b.AddOnFee})
	}
	s.Total = line{Label: "Total (first year)", Amount: b.Total}

	if b.ContractYears > 1 {
		s.Notes = append(s.Notes, fmt.Sprintf("Recurring contract value over %s: %s",
			english.Plural(b.ContractYears, "year", ""), formatMoney(b.Currency, b.ContractValue)))
	}
	if b.IsEstimate {
		s.Notes = append(s.Notes, "Estimate: final pricing is subject to review by our team.")
	}
	if b.RuleVersion != "" {
		s.Notes = append(s.Notes, "Price list "+b.RuleVersion)
	}
	return s, nil
}

func productName(cfg pricing.Configuration) string {
	name := pricing.FamilyLabel(cfg.ProductFamily)
	if rule, err := pricing.LookupRule(cfg.ProductFamily, cfg.Tier); err == nil {
		return name + " " + rule.Label
	}
	return name + " " + cfg.Tier
}

func addOnNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if svc, ok := pricing.LookupAddOn(id); ok {
			names = append(names, svc.Name)
			continue
		}
		names = append(names, id)
	}
	return strings.Join(names, ", ")
}

func formatMoney(currency string, amount decimal.Decimal) string {
	formatted := humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}

func fileName(record pricing.QuoteRecord, ext string) string {
	return "quote-" + record.ID + "." + ext
}
