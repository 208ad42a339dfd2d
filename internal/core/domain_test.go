package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validFields() Fields {
	return Fields{
		VendorName:    "Acme",
		Amount:        decimal.RequireFromString("10.00"),
		PaymentDate:   NewDate(2025, 1, 1),
		Status:        StatusPending,
		PaymentMethod: "Credit Card",
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	for _, bad := range []string{"", "pending", "Paid", "Complete"} {
		_, err := ParseStatus(bad)
		if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("ParseStatus(%q) expected validation error, got %v", bad, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 15 {
		t.Fatalf("unexpected date: %v", d)
	}
	if d.String() != "2024-01-15" {
		t.Fatalf("String() = %q", d.String())
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if (Date{}).String() != "" || !(Date{}).IsEmpty() {
		t.Fatalf("zero date should be empty")
	}
}

func TestFieldsValidate(t *testing.T) {
	if err := validFields().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		edit  func(*Fields)
		field string
	}{
		{"blank vendor", func(f *Fields) { f.VendorName = "   " }, "vendorName"},
		{"negative amount", func(f *Fields) { f.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"missing payment date", func(f *Fields) { f.PaymentDate = Date{} }, "paymentDate"},
		{"unknown status", func(f *Fields) { f.Status = "Paid" }, "status"},
		{"blank method", func(f *Fields) { f.PaymentMethod = "" }, "paymentMethod"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.edit(&f)
			err := f.Validate()
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tc.field {
				t.Fatalf("expected field error on %s, got %v", tc.field, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	zero := validFields()
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be allowed, got %v", err)
	}
}

func TestPaymentRecordEqual(t *testing.T) {
	a := PaymentRecord{ID: "1", Fields: validFields()}
	b := a
	b.Amount = decimal.RequireFromString("10")
	if !a.Equal(b) {
		t.Fatalf("10.00 and 10 should compare equal")
	}
	b.DueDate = NewDate(2025, 2, 1)
	if a.Equal(b) {
		t.Fatalf("different due dates should not be equal")
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&FieldError{Field: "amount", Err: ErrInvalidAmount}, "validation_error"},
		{NotFoundError("x"), "not_found_error"},
		{PersistenceError("persist", errors.New("disk full")), "database_error"},
		{ErrCorruptBlob, "data_integrity_error"},
		{errors.New("boom"), "internal_error"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestSampleRecords(t *testing.T) {
	recs := SampleRecords()
	if len(recs) != 3 {
		t.Fatalf("expected 3 sample records, got %d", len(recs))
	}
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			t.Fatalf("sample %s invalid: %v", r.ID, err)
		}
	}
}
