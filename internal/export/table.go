// Package export renders tabular reports as PDF and spreadsheet files.
package export

// Column describes one report column. PDFWidth is in millimetres,
// SheetWidth in spreadsheet character units. SheetHeader, when set,
// replaces Header in the spreadsheet.
type Column struct {
	Header      string
	SheetHeader string
	PDFWidth    float64
	SheetWidth  float64
}

// Table is a titled report with one string cell per column in every row.
type Table struct {
	Title     string
	SheetName string
	Columns   []Column
	Rows      [][]string
}

func (t Table) sheetHeaders() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		if col.SheetHeader != "" {
			headers[i] = col.SheetHeader
		}
	}
	return headers
}
