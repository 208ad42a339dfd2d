package app

import (
	"strings"

	"paydash/internal/core"
)

// PaymentForm is the raw user input for a payment, as submitted.
type PaymentForm struct {
	VendorName    string `json:"vendorName"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"paymentDate"`
	DueDate       string `json:"dueDate"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	InvoiceNumber string `json:"invoiceNumber"`
	Description   string `json:"description"`
}

// FormFromRecord fills a form with an existing record, for editing.
func FormFromRecord(r core.PaymentRecord) PaymentForm {
	return PaymentForm{
		VendorName:    r.VendorName,
		Amount:        r.Amount.StringFixed(2),
		PaymentDate:   r.PaymentDate.String(),
		DueDate:       r.DueDate.String(),
		Status:        r.Status.String(),
		PaymentMethod: r.PaymentMethod,
		InvoiceNumber: r.InvoiceNumber,
		Description:   r.Description,
	}
}

// Fields parses and validates the form. The first invalid field wins.
func (f PaymentForm) Fields() (core.Fields, error) {
	var out core.Fields

	out.VendorName = strings.TrimSpace(f.VendorName)
	if out.VendorName == "" {
		return core.Fields{}, &core.FieldError{Field: "vendorName", Err: core.ErrEmptyVendor}
	}

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Fields{}, err
	}
	out.Amount = amount

	if strings.TrimSpace(f.PaymentDate) == "" {
		return core.Fields{}, &core.FieldError{Field: "paymentDate", Err: core.ErrMissingDate}
	}
	if out.PaymentDate, err = core.ParseDate(f.PaymentDate); err != nil {
		return core.Fields{}, &core.FieldError{Field: "paymentDate", Err: core.ErrInvalidDate}
	}

	if strings.TrimSpace(f.DueDate) != "" {
		if out.DueDate, err = core.ParseDate(f.DueDate); err != nil {
			return core.Fields{}, &core.FieldError{Field: "dueDate", Err: core.ErrInvalidDate}
		}
	}

	if out.Status, err = core.ParseStatus(f.Status); err != nil {
		return core.Fields{}, err
	}

	out.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	out.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	out.Description = strings.TrimSpace(f.Description)

	if err := out.Validate(); err != nil {
		return core.Fields{}, err
	}
	return out, nil
}
