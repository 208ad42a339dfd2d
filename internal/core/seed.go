package core

import "github.com/shopspring/decimal"

// SampleRecords is the demo ledger written when no persisted data exists.
func SampleRecords() []PaymentRecord {
	return []PaymentRecord{
		{
			ID: "1",
			Fields: Fields{
				VendorName:    "Amazon Web Services",
				Amount:        decimal.RequireFromString("1250.50"),
				PaymentDate:   NewDate(2024, 1, 15),
				DueDate:       NewDate(2024, 1, 20),
				Status:        StatusCompleted,
				PaymentMethod: "Credit Card",
				InvoiceNumber: "INV-001",
				Description:   "Monthly cloud hosting fee",
			},
		},
		{
			ID: "2",
			Fields: Fields{
				VendorName:    "Digital Ocean",
				Amount:        decimal.RequireFromString("500.00"),
				PaymentDate:   NewDate(2024, 1, 10),
				DueDate:       NewDate(2024, 1, 25),
				Status:        StatusPending,
				PaymentMethod: "Bank Transfer",
				InvoiceNumber: "INV-002",
				Description:   "Droplet hosting",
			},
		},
		{
			ID: "3",
			Fields: Fields{
				VendorName:    "Google Workspace",
				Amount:        decimal.RequireFromString("300.00"),
				PaymentDate:   NewDate(2024, 1, 5),
				DueDate:       NewDate(2024, 1, 15),
				Status:        StatusProcessing,
				PaymentMethod: "PayPal",
				InvoiceNumber: "INV-003",
				Description:   "Business email subscription",
			},
		},
	}
}
