// Package sheets exports the payment ledger to a spreadsheet tab.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"paydash/internal/export"
)

// Ports for outbound adapters.
type (
	// TabWriter replaces the full contents of a named tab.
	TabWriter interface {
		ReplaceTab(ctx context.Context, tab string, values [][]any) error
	}
)

// amountColumn holds numbers so the spreadsheet can sum them.
const amountColumn = 1

// Values converts a document to spreadsheet cells: header first, then one
// row per payment. Amounts become numbers; every other cell stays text.
func Values(doc export.Document) [][]any {
	out := make([][]any, 0, len(doc.Rows)+1)
	out = append(out, toAny(doc.Header))
	for _, row := range doc.Rows {
		cells := toAny(row)
		if amountColumn < len(row) {
			if d, err := decimal.NewFromString(row[amountColumn]); err == nil {
				cells[amountColumn] = d.InexactFloat64()
			}
		}
		out = append(out, cells)
	}
	return out
}

// TabRange is the A1 range covering a whole tab.
func TabRange(tab string) string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(tab, "'", "''"))
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// Exporter writes documents to a fixed tab through a TabWriter.
type Exporter struct {
	Writer TabWriter
	Tab    string
}

var _ export.Sink = Exporter{}

func (e Exporter) Export(ctx context.Context, doc export.Document) error {
	if e.Writer == nil {
		return fmt.Errorf("sheets export: no writer configured")
	}
	if err := e.Writer.ReplaceTab(ctx, e.Tab, Values(doc)); err != nil {
		return fmt.Errorf("sheets export to %q: %w", e.Tab, err)
	}
	return nil
}
