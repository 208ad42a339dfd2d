package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
	"paydash/internal/notify"
	"paydash/internal/projector"
)

var chartLabels = [projector.ChartMonthCount]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// viewCapture is the app.Presenter for one request. It keeps whatever the
// controller rendered so the handler can return it as JSON, and forwards
// toasts to the shared board.
type viewCapture struct {
	board *notify.Board

	rendered bool
	rows     []core.PaymentRecord
	stats    projector.Stats
	vendors  []string
	selected string
	counts   projector.StatusCounts
	chart    [projector.ChartMonthCount]decimal.Decimal
	toast    *notify.Toast
}

func newViewCapture(board *notify.Board) *viewCapture {
	return &viewCapture{board: board}
}

func (v *viewCapture) RenderTable(rows []core.PaymentRecord) {
	v.rendered = true
	v.rows = rows
}

func (v *viewCapture) RenderStats(stats projector.Stats) {
	v.stats = stats
}

func (v *viewCapture) RenderVendorFilter(vendors []string, selected string) {
	v.vendors = vendors
	v.selected = selected
}

func (v *viewCapture) RenderCharts(counts projector.StatusCounts, months [projector.ChartMonthCount]decimal.Decimal) {
	v.counts = counts
	v.chart = months
}

func (v *viewCapture) Notify(message string, severity notify.Severity) {
	t := v.board.Notify(message, severity)
	v.toast = &t
}

// Wire shapes.
type (
	paymentDTO struct {
		ID            string      `json:"id"`
		VendorName    string      `json:"vendorName"`
		Amount        json.Number `json:"amount"`
		PaymentDate   string      `json:"paymentDate"`
		DueDate       *string     `json:"dueDate"`
		Status        string      `json:"status"`
		PaymentMethod string      `json:"paymentMethod"`
		InvoiceNumber *string     `json:"invoiceNumber"`
		Description   string      `json:"description"`
	}

	statsDTO struct {
		TotalPayments     int         `json:"totalPayments"`
		PendingPayments   int         `json:"pendingPayments"`
		CompletedPayments int         `json:"completedPayments"`
		TotalAmount       json.Number `json:"totalAmount"`
	}

	chartPoint struct {
		Month string      `json:"month"`
		Total json.Number `json:"total"`
	}

	dashboardDTO struct {
		Payments       []paymentDTO     `json:"payments"`
		Stats          statsDTO         `json:"stats"`
		StatusCounts   map[string]int   `json:"statusCounts"`
		MonthlyChart   []chartPoint     `json:"monthlyChart"`
		Vendors        []string         `json:"vendors"`
		SelectedVendor string           `json:"selectedVendor"`
		Filter         projector.Filter `json:"filter"`
	}

	// mutationDTO answers create, update and delete.
	mutationDTO struct {
		Payment      *paymentDTO   `json:"payment,omitempty"`
		Dashboard    *dashboardDTO `json:"dashboard,omitempty"`
		Notification *notify.Toast `json:"notification,omitempty"`
	}
)

func newPaymentDTO(r core.PaymentRecord) paymentDTO {
	return paymentDTO{
		ID:            r.ID,
		VendorName:    r.VendorName,
		Amount:        json.Number(r.Amount.String()),
		PaymentDate:   r.PaymentDate.String(),
		DueDate:       optional(r.DueDate.String()),
		Status:        r.Status.String(),
		PaymentMethod: r.PaymentMethod,
		InvoiceNumber: optional(r.InvoiceNumber),
		Description:   r.Description,
	}
}

// dashboard returns the captured views, or nil when nothing was rendered.
func (v *viewCapture) dashboard(filter projector.Filter) *dashboardDTO {
	if !v.rendered {
		return nil
	}
	d := &dashboardDTO{
		Payments: make([]paymentDTO, len(v.rows)),
		Stats: statsDTO{
			TotalPayments:     v.stats.Total,
			PendingPayments:   v.stats.Pending,
			CompletedPayments: v.stats.Completed,
			TotalAmount:       json.Number(v.stats.TotalAmount.String()),
		},
		StatusCounts:   make(map[string]int, len(v.counts)),
		MonthlyChart:   make([]chartPoint, 0, projector.ChartMonthCount),
		Vendors:        v.vendors,
		SelectedVendor: v.selected,
		Filter:         filter,
	}
	for i, r := range v.rows {
		d.Payments[i] = newPaymentDTO(r)
	}
	for st, n := range v.counts {
		d.StatusCounts[st.String()] = n
	}
	for i, total := range v.chart {
		d.MonthlyChart = append(d.MonthlyChart, chartPoint{Month: chartLabels[i], Total: json.Number(total.String())})
	}
	if d.Vendors == nil {
		d.Vendors = []string{}
	}
	return d
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func durationMs(d time.Duration) int {
	return int(d / time.Millisecond)
}
