// Package export turns the payment list into a tabular document that can be
// written as CSV or pushed to an external sink such as a spreadsheet.
package export

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"paydash/internal/core"
)

// Header is the fixed column order of every export.
var Header = []string{
	"Vendor Name",
	"Amount",
	"Date",
	"Due Date",
	"Status",
	"Payment Method",
	"Invoice #",
	"Description",
}

// Columns that are always quoted in CSV output.
const (
	colVendor      = 0
	colDescription = 7
)

// Document is one export of the full, unfiltered payment list.
type Document struct {
	Filename string
	Header   []string
	Rows     [][]string
}

// Sink receives a finished document.
type Sink interface {
	Export(ctx context.Context, doc Document) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, doc Document) error

func (f SinkFunc) Export(ctx context.Context, doc Document) error {
	return f(ctx, doc)
}

// Filename is payments_YYYY-MM-DD.csv for the given day.
func Filename(now time.Time) string {
	return "payments_" + now.Format("2006-01-02") + ".csv"
}

// Build creates a document with one row per record in stored order.
func Build(records []core.PaymentRecord, now time.Time) Document {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row(r))
	}
	return Document{
		Filename: Filename(now),
		Header:   append([]string(nil), Header...),
		Rows:     rows,
	}
}

// Row renders one record in Header order. Absent optionals are empty.
func Row(r core.PaymentRecord) []string {
	return []string{
		r.VendorName,
		r.Amount.String(),
		r.PaymentDate.String(),
		r.DueDate.String(),
		r.Status.String(),
		r.PaymentMethod,
		r.InvoiceNumber,
		r.Description,
	}
}

// WriteCSV writes the header and rows separated by "\n" with no trailing
// newline. Vendor name and description are always quoted; other cells are
// quoted only when they contain a comma, quote or line break.
func (d Document) WriteCSV(w io.Writer) error {
	var b strings.Builder
	writeLine(&b, d.Header, false)
	for _, row := range d.Rows {
		b.WriteByte('\n')
		writeLine(&b, row, true)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// CSV returns the encoded document.
func (d Document) CSV() []byte {
	var buf bytes.Buffer
	_ = d.WriteCSV(&buf)
	return buf.Bytes()
}

func writeLine(b *strings.Builder, cells []string, data bool) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		force := data && (i == colVendor || i == colDescription)
		if force || needsQuotes(cell) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(cell)
	}
}

func needsQuotes(s string) bool {
	return strings.ContainsAny(s, ",\"\r\n")
}
