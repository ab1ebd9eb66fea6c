package export

import (
	"bytes"
	"fmt"

	"github.com/Simplici0/quoteworks/internal/pricing"
)

// TextRenderer renders a plain-text quote summary.
type TextRenderer struct{}

const labelWidth = 36

// Render implements Exporter.
func (TextRenderer) Render(record pricing.QuoteRecord) (Document, error) {
	s, err := summarize(record)
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, s.Title)
	fmt.Fprintln(&buf, "Created "+s.Created)
	fmt.Fprintln(&buf)

	for _, d := range s.Details {
		fmt.Fprintf(&buf, "%-*s %s\n", labelWidth, d.Label+":", d.Value)
	}
	fmt.Fprintln(&buf)

	if s.Custom {
		fmt.Fprintln(&buf, customQuoteNotice)
	} else {
		for _, c := range s.Charges {
			fmt.Fprintf(&buf, "%-*s %s\n", labelWidth, c.Label, formatMoney(s.Currency, c.Amount))
		}
		fmt.Fprintf(&buf, "%-*s %s\n", labelWidth, s.Total.Label, formatMoney(s.Currency, s.Total.Amount))
	}

	if len(s.Notes) > 0 {
		fmt.Fprintln(&buf)
		for _, n := range s.Notes {
			fmt.Fprintln(&buf, n)
		}
	}

	return Document{
		ContentType: "text/plain; charset=utf-8",
		FileName:    fileName(record, "txt"),
		Body:        buf.Bytes(),
	}, nil
}
