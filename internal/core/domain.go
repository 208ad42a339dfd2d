package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    Status = "Pending"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusProcessing Status = "Processing"
)

const dateLayout = "2006-01-02"

type (
	// Status is the lifecycle state of a payment. Only the four constants
	// above are valid; use ParseStatus to build one from untrusted input.
	Status string

	Date struct {
		time.Time
	}

	// Fields is everything a user supplies for a payment. A PaymentRecord
	// is Fields plus the store-assigned ID.
	Fields struct {
		VendorName    string
		Amount        decimal.Decimal
		PaymentDate   Date
		DueDate       Date   // zero when absent
		Status        Status
		PaymentMethod string
		InvoiceNumber string // empty when absent
		Description   string
	}

	PaymentRecord struct {
		ID string
		Fields
	}
)

// Statuses returns the valid statuses in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusCompleted, StatusFailed, StatusProcessing}
}

// ParseStatus accepts the exact status names only.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", &FieldError{Field: "status", Err: fmt.Errorf("%w %q", ErrInvalidStatus, s)}
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusProcessing:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// IsEmpty returns true if the date is zero (absent optional date)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (f Fields) Validate() error {
	if strings.TrimSpace(f.VendorName) == "" {
		return &FieldError{Field: "vendorName", Err: ErrEmptyVendor}
	}
	if f.Amount.IsNegative() {
		return &FieldError{Field: "amount", Err: ErrInvalidAmount}
	}
	if err := f.PaymentDate.Validate(); err != nil {
		return &FieldError{Field: "paymentDate", Err: err}
	}
	if !f.Status.Valid() {
		return &FieldError{Field: "status", Err: fmt.Errorf("%w %q", ErrInvalidStatus, string(f.Status))}
	}
	if strings.TrimSpace(f.PaymentMethod) == "" {
		return &FieldError{Field: "paymentMethod", Err: ErrEmptyPaymentMethod}
	}
	return nil
}

// Equal reports field-for-field equality. Amounts compare numerically so
// 500 and 500.00 are the same payment.
func (r PaymentRecord) Equal(o PaymentRecord) bool {
	return r.ID == o.ID &&
		r.VendorName == o.VendorName &&
		r.Amount.Equal(o.Amount) &&
		r.PaymentDate.Equal(o.PaymentDate.Time) &&
		r.DueDate.Equal(o.DueDate.Time) &&
		r.Status == o.Status &&
		r.PaymentMethod == o.PaymentMethod &&
		r.InvoiceNumber == o.InvoiceNumber &&
		r.Description == o.Description
}
