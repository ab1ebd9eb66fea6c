package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

// XLSXRenderer renders a single-sheet workbook. Amounts are written as
// numbers so the buyer can rework them.
type XLSXRenderer struct{}

const quoteSheet = "Quote"

// Render implements Exporter.
func (XLSXRenderer) Render(record pricing.QuoteRecord) (Document, error) {
	s, err := summarize(record)
	if err != nil {
		return Document{}, err
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", quoteSheet); err != nil {
		return Document{}, apperrors.Render("name sheet", err)
	}

	money, err := file.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return Document{}, apperrors.Render("create money style", err)
	}
	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Document{}, apperrors.Render("create header style", err)
	}

	w := &sheetWriter{file: file, sheet: quoteSheet}

	row := 1
	w.set(cellA(row), s.Title)
	w.style(cellA(row), bold)
	row++
	w.set(cellA(row), "Created")
	w.set(cellB(row), s.Created)
	row++
	w.set(cellA(row), "Currency")
	w.set(cellB(row), s.Currency)
	row += 2

	for _, d := range s.Details {
		w.set(cellA(row), d.Label)
		w.set(cellB(row), d.Value)
		row++
	}
	row++

	if s.Custom {
		w.set(cellA(row), customQuoteNotice)
		w.style(cellA(row), bold)
		row++
	} else {
		for _, c := range s.Charges {
			w.set(cellA(row), c.Label)
			w.set(cellB(row), c.Amount.InexactFloat64())
			w.style(cellB(row), money)
			row++
		}
		w.set(cellA(row), s.Total.Label)
		w.set(cellB(row), s.Total.Amount.InexactFloat64())
		w.style(cellA(row), bold)
		w.style(cellB(row), money)
		row++
	}

	row++
	for _, n := range s.Notes {
		w.set(cellA(row), n)
		row++
	}

	w.width("A", 40)
	w.width("B", 48)

	if w.err != nil {
		return Document{}, apperrors.Render("write cells", w.err).WithContext("quoteId", record.ID)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return Document{}, apperrors.Render("write xlsx", err).WithContext("quoteId", record.ID)
	}

	return Document{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		FileName:    fileName(record, "xlsx"),
		Body:        buf.Bytes(),
	}, nil
}

// sheetWriter keeps the first error from a run of sheet edits.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(cell string, value any) {
	if w.err == nil {
		w.err = w.file.SetCellValue(w.sheet, cell, value)
	}
}

func (w *sheetWriter) style(cell string, id int) {
	if w.err == nil {
		w.err = w.file.SetCellStyle(w.sheet, cell, cell, id)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err == nil {
		w.err = w.file.SetColWidth(w.sheet, col, col, width)
	}
}

func cellA(row int) string { return fmt.Sprintf("A%d", row) }
func cellB(row int) string { return fmt.Sprintf("B%d", row) }
