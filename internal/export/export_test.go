package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
)

var exportDay = time.Date(2024, 2, 9, 18, 30, 0, 0, time.UTC)

func TestSeededCSV(t *testing.T) {
	doc := Build(core.SampleRecords(), exportDay)

	if doc.Filename != "payments_2024-02-09.csv" {
		t.Fatalf("unexpected filename %q", doc.Filename)
	}

	want := strings.Join([]string{
		"Vendor Name,Amount,Date,Due Date,Status,Payment Method,Invoice #,Description",
		`"Amazon Web Services",1250.5,2024-01-15,2024-01-20,Completed,Credit Card,INV-001,"Monthly cloud hosting fee"`,
		`"Digital Ocean",500,2024-01-10,2024-01-25,Pending,Bank Transfer,INV-002,"Droplet hosting"`,
		`"Google Workspace",300,2024-01-05,2024-01-15,Processing,PayPal,INV-003,"Business email subscription"`,
	}, "\n")
	if got := string(doc.CSV()); got != want {
		t.Fatalf("CSV mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestEmptyExportIsHeaderOnly(t *testing.T) {
	got := string(Build(nil, exportDay).CSV())
	if got != strings.Join(Header, ",") {
		t.Fatalf("got %q", got)
	}
}

func TestCSVEscaping(t *testing.T) {
	r := core.PaymentRecord{
		ID: "x",
		Fields: core.Fields{
			VendorName:    `Acme "Best" Corp`,
			Amount:        decimal.RequireFromString("10.25"),
			PaymentDate:   core.NewDate(2024, 3, 1),
			Status:        core.StatusFailed,
			PaymentMethod: "Card, corporate",
			Description:   "line one\nline two",
		},
	}
	doc := Build([]core.PaymentRecord{r}, exportDay)
	lines := strings.SplitN(string(doc.CSV()), "\n", 2)
	wantRow := `"Acme ""Best"" Corp",10.25,2024-03-01,,Failed,"Card, corporate",,"line one` + "\nline two\""
	if lines[1] != wantRow {
		t.Fatalf("got %q\nwant %q", lines[1], wantRow)
	}

	// Standard readers must recover the original cells.
	rows, err := csv.NewReader(bytes.NewReader(doc.CSV())).ReadAll()
	if err != nil {
		t.Fatalf("csv read: %v", err)
	}
	if rows[1][0] != r.VendorName || rows[1][5] != r.PaymentMethod || rows[1][7] != r.Description {
		t.Fatalf("round trip mismatch: %q", rows[1])
	}
}

func TestBuildDoesNotShareHeader(t *testing.T) {
	doc := Build(nil, exportDay)
	doc.Header[0] = "changed"
	if Header[0] != "Vendor Name" {
		t.Fatalf("Build must copy the header")
	}
}

func TestSinkFunc(t *testing.T) {
	var got Document
	var sink Sink = SinkFunc(func(_ context.Context, d Document) error {
		got = d
		return nil
	})
	if err := sink.Export(context.Background(), Build(core.SampleRecords(), exportDay)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got.Rows))
	}
}
