package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"paydash/internal/core"
)

// paymentJSON is the persisted shape of a record. Field names match the
// blob written by earlier versions of the dashboard so existing data loads.
type paymentJSON struct {
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

// Encode serializes the full record list.
func Encode(records []core.PaymentRecord) (string, error) {
	out := make([]paymentJSON, len(records))
	for i, r := range records {
		out[i] = paymentJSON{
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
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode payments: %w", err)
	}
	return string(b), nil
}

// Decode parses a persisted blob. Any malformed record rejects the whole
// blob with core.ErrCorruptBlob; nothing is dropped silently.
func Decode(data string) ([]core.PaymentRecord, error) {
	var in []paymentJSON
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptBlob, err)
	}

	records := make([]core.PaymentRecord, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, p := range in {
		r, err := p.record()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (id %q): %w", core.ErrCorruptBlob, i, p.ID, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", core.ErrCorruptBlob, r.ID)
		}
		seen[r.ID] = struct{}{}
		records = append(records, r)
	}
	return records, nil
}

func (p paymentJSON) record() (core.PaymentRecord, error) {
	if strings.TrimSpace(p.ID) == "" {
		return core.PaymentRecord{}, fmt.Errorf("missing id")
	}
	amount, err := decimal.NewFromString(p.Amount.String())
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("amount %q: %w", p.Amount, err)
	}
	paid, err := core.ParseDate(p.PaymentDate)
	if err != nil {
		return core.PaymentRecord{}, fmt.Errorf("paymentDate %q: %w", p.PaymentDate, err)
	}
	var due core.Date
	if p.DueDate != nil && *p.DueDate != "" {
		if due, err = core.ParseDate(*p.DueDate); err != nil {
			return core.PaymentRecord{}, fmt.Errorf("dueDate %q: %w", *p.DueDate, err)
		}
	}
	status := core.Status(p.Status)
	if !status.Valid() {
		return core.PaymentRecord{}, fmt.Errorf("%w %q", core.ErrInvalidStatus, p.Status)
	}
	var invoice string
	if p.InvoiceNumber != nil {
		invoice = *p.InvoiceNumber
	}
	return core.PaymentRecord{
		ID: p.ID,
		Fields: core.Fields{
			VendorName:    p.VendorName,
			Amount:        amount,
			PaymentDate:   paid,
			DueDate:       due,
			Status:        status,
			PaymentMethod: p.PaymentMethod,
			InvoiceNumber: invoice,
			Description:   p.Description,
		},
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
