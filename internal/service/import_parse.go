package service

import (
	"errors"
	"strings"
)

// ErrEmptyFile is returned when the uploaded file has no data rows left
// after the header row. Nothing is submitted in that case.
var ErrEmptyFile = errors.New("the uploaded file contains no data rows")

// CSV column names the import mapper reads. These match the downloadable
// template exactly.
const (
	colInvoiceNumber     = "Invoice Number"
	colAmount            = "Amount"
	colSubtotal          = "Subtotal"
	colTax               = "Tax"
	colDiscount          = "Discount"
	colDescribe          = "Describe"
	colType              = "Type"
	colExpectPaymentTime = "Expect Payment Time"
	colCurrency          = "Currency"
)

// CSVRow maps a header name to the row's cell value. A row with fewer
// columns than the header has nil for the missing trailing fields.
type CSVRow map[string]*string

// ParseCSVRows splits raw text into row maps. Lines are split on newline,
// trimmed, and empty lines dropped; the first remaining line is the header.
// Cells are split on comma and zipped positionally against the header.
//
// Quoted fields and embedded commas are NOT handled — the import format is
// defined as plain comma-separated cells, and tolerating quoting here would
// silently change which files are accepted.
func ParseCSVRows(raw string) ([]CSVRow, error) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, ErrEmptyFile
	}

	headers := splitCells(lines[0])
	rows := make([]CSVRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := splitCells(line)
		row := make(CSVRow, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				v := cells[i]
				row[h] = &v
			} else {
				row[h] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func splitCells(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// cell returns the trimmed value for a header, empty when absent or nil.
func (r CSVRow) cell(header string) string {
	if v, ok := r[header]; ok && v != nil {
		return *v
	}
	return ""
}
