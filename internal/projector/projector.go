// Package projector derives everything the dashboard displays from the
// record list. Every function is pure and leaves its input untouched.
package projector

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
)

// ChartMonthCount is how many months, starting at January, the bar chart shows.
const ChartMonthCount = 6

// Filter narrows the table. Empty fields match everything.
type Filter struct {
	Search string      `json:"search"`
	Status core.Status `json:"status"`
	Vendor string      `json:"vendor"`
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.Vendor == ""
}

// Matches applies the search, status and vendor criteria to one record.
func (f Filter) Matches(r core.PaymentRecord) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.VendorName), term) &&
			!strings.Contains(strings.ToLower(r.InvoiceNumber), term) {
			return false
		}
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Vendor != "" && r.VendorName != f.Vendor {
		return false
	}
	return true
}

type Stats struct {
	Total       int             `json:"totalPayments"`
	Pending     int             `json:"pendingPayments"`
	Completed   int             `json:"completedPayments"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// StatusCounts always carries all four statuses.
type StatusCounts map[core.Status]int

// Views bundles every derived view for one render pass.
type Views struct {
	Rows            []core.PaymentRecord
	Stats           Stats
	StatusCounts    StatusCounts
	MonthlyTotals   [12]decimal.Decimal
	ChartMonths     [ChartMonthCount]decimal.Decimal
	Vendors         []string
	VendorSelection string
	Filter          Filter
}

// FilteredAndSorted returns the records matching f, newest payment date
// first. Records on the same date keep their stored order.
func FilteredAndSorted(records []core.PaymentRecord, f Filter) []core.PaymentRecord {
	out := make([]core.PaymentRecord, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b core.PaymentRecord) int {
		return b.PaymentDate.Compare(a.PaymentDate.Time)
	})
	return out
}

// Statistics summarizes the full list; filters do not apply.
func Statistics(records []core.PaymentRecord) Stats {
	s := Stats{Total: len(records), TotalAmount: decimal.Zero}
	for _, r := range records {
		switch r.Status {
		case core.StatusPending:
			s.Pending++
		case core.StatusCompleted:
			s.Completed++
		}
		s.TotalAmount = s.TotalAmount.Add(r.Amount)
	}
	return s
}

// StatusDistribution counts records per status. A record with a status
// outside the closed set is a data integrity error.
func StatusDistribution(records []core.PaymentRecord) (StatusCounts, error) {
	counts := make(StatusCounts, 4)
	for _, st := range core.Statuses() {
		counts[st] = 0
	}
	for _, r := range records {
		if !r.Status.Valid() {
			return nil, fmt.Errorf("%w: payment %q has status %q", core.ErrDataIntegrity, r.ID, string(r.Status))
		}
		counts[r.Status]++
	}
	return counts, nil
}

// MonthlyTotals sums amounts by calendar month; index 0 is January.
// Years are not distinguished.
func MonthlyTotals(records []core.PaymentRecord) [12]decimal.Decimal {
	var totals [12]decimal.Decimal
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, r := range records {
		if r.PaymentDate.IsEmpty() {
			continue
		}
		m := r.PaymentDate.Month() - 1
		totals[m] = totals[m].Add(r.Amount)
	}
	return totals
}

// ChartMonths keeps January through June.
func ChartMonths(totals [12]decimal.Decimal) [ChartMonthCount]decimal.Decimal {
	var out [ChartMonthCount]decimal.Decimal
	copy(out[:], totals[:ChartMonthCount])
	return out
}

// DistinctVendors lists vendor names in order of first appearance.
func DistinctVendors(records []core.PaymentRecord) []string {
	seen := make(map[string]struct{}, len(records))
	vendors := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.VendorName]; ok {
			continue
		}
		seen[r.VendorName] = struct{}{}
		vendors = append(vendors, r.VendorName)
	}
	return vendors
}

// ResolveVendorSelection keeps current when it is still offered, otherwise
// falls back to "" (all vendors).
func ResolveVendorSelection(vendors []string, current string) string {
	if current != "" && slices.Contains(vendors, current) {
		return current
	}
	return ""
}

// Compute derives every view. The vendor selection is resolved before the
// table is filtered so a vanished vendor never empties the table.
func Compute(records []core.PaymentRecord, f Filter) (Views, error) {
	counts, err := StatusDistribution(records)
	if err != nil {
		return Views{}, err
	}
	vendors := DistinctVendors(records)
	f.Vendor = ResolveVendorSelection(vendors, f.Vendor)
	totals := MonthlyTotals(records)

	return Views{
		Rows:            FilteredAndSorted(records, f),
		Stats:           Statistics(records),
		StatusCounts:    counts,
		MonthlyTotals:   totals,
		ChartMonths:     ChartMonths(totals),
		Vendors:         vendors,
		VendorSelection: f.Vendor,
		Filter:          f,
	}, nil
}
