package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

// PDFRenderer renders a one-page PDF quote using the core Helvetica font.
type PDFRenderer struct{}

const pdfFont = "Helvetica"

// Render implements Exporter.
func (PDFRenderer) Render(record pricing.QuoteRecord) (Document, error) {
	s, err := summarize(record)
	if err != nil {
		return Document{}, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, tr("Created "+s.Created), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Configuration", "", 1, "L", false, 0, "")
	for _, d := range s.Details {
		drawRow(pdf, tr(d.Label), tr(d.Value), false)
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 8, "Pricing", "", 1, "L", false, 0, "")
	if s.Custom {
		pdf.SetTextColor(160, 0, 0)
		pdf.SetFont(pdfFont, "B", 11)
		pdf.CellFormat(0, 8, customQuoteNotice, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	} else {
		for _, c := range s.Charges {
			drawRow(pdf, tr(c.Label), formatMoney(s.Currency, c.Amount), false)
		}
		drawRow(pdf, tr(s.Total.Label), formatMoney(s.Currency, s.Total.Amount), true)
	}

	if len(s.Notes) > 0 {
		pdf.Ln(4)
		pdf.SetFont(pdfFont, "", 9)
		for _, n := range s.Notes {
			pdf.MultiCell(0, 5, tr(n), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, apperrors.Render("write pdf", err).WithContext("quoteId", record.ID)
	}

	return Document{
		ContentType: "application/pdf",
		FileName:    fileName(record, "pdf"),
		Body:        buf.Bytes(),
	}, nil
}

func drawRow(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(pdfFont, style, 10)
	pdf.CellFormat(100, 7, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "B", 1, "R", false, 0, "")
}
