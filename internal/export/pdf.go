package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfRowHeight    = 7.0
	pdfMaxCellRunes = 50
)

// WritePDF renders t as a single A4 document with a title and a grid table.
func WritePDF(t Table) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(99, 102, 241)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(229, 231, 235)
		for _, col := range t.Columns {
			pdf.CellFormat(col.PDFWidth, pdfRowHeight+2, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()

	for i, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			writeHeader()
		}

		if i%2 == 1 {
			pdf.SetFillColor(249, 250, 251)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, col := range t.Columns {
			cell := ""
			if j < len(row) {
				cell = truncate(row[j], pdfMaxCellRunes)
			}
			pdf.CellFormat(col.PDFWidth, pdfRowHeight, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
