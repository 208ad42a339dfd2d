package app

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
)

func TestPaymentFormFields(t *testing.T) {
	f, err := validForm().Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if f.VendorName != "Stripe" || !f.Amount.Equal(decimal.RequireFromString("99.90")) {
		t.Fatalf("unexpected fields %+v", f)
	}
	if !f.DueDate.IsEmpty() || f.InvoiceNumber != "INV-900" || f.Status != core.StatusFailed {
		t.Fatalf("unexpected optionals %+v", f)
	}
}

func TestPaymentFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PaymentForm)
		field  string
		want   error
	}{
		{"blank vendor", func(f *PaymentForm) { f.VendorName = "  " }, "vendorName", core.ErrEmptyVendor},
		{"missing amount", func(f *PaymentForm) { f.Amount = "" }, "amount", core.ErrInvalidAmount},
		{"negative amount", func(f *PaymentForm) { f.Amount = "-5" }, "amount", core.ErrInvalidAmount},
		{"missing date", func(f *PaymentForm) { f.PaymentDate = "" }, "paymentDate", core.ErrMissingDate},
		{"bad date", func(f *PaymentForm) { f.PaymentDate = "14/02/2024" }, "paymentDate", core.ErrInvalidDate},
		{"bad due date", func(f *PaymentForm) { f.DueDate = "soon" }, "dueDate", core.ErrInvalidDate},
		{"unknown status", func(f *PaymentForm) { f.Status = "Refunded" }, "status", core.ErrInvalidStatus},
		{"blank method", func(f *PaymentForm) { f.PaymentMethod = "" }, "paymentMethod", core.ErrEmptyPaymentMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.modify(&form)
			_, err := form.Fields()

			var fe *core.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected field error, got %v", err)
			}
			if fe.Field != tt.field || !errors.Is(err, tt.want) || !errors.Is(err, core.ErrValidation) {
				t.Fatalf("got field %q err %v, want %q %v", fe.Field, err, tt.field, tt.want)
			}
		})
	}
}

func TestFormFromRecordRoundTrip(t *testing.T) {
	for _, rec := range core.SampleRecords() {
		f, err := FormFromRecord(rec).Fields()
		if err != nil {
			t.Fatalf("Fields: %v", err)
		}
		if !(core.PaymentRecord{ID: rec.ID, Fields: f}).Equal(rec) {
			t.Fatalf("round trip mismatch for %s", rec.ID)
		}
	}
}
