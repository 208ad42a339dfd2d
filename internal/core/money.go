// Package core provides the payment domain types.
//
// This file contains parsing of user-entered monetary amounts.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is allowed; signs,
// exponents and any other characters are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
//	ParseAmount("-1")     -> error
//	ParseAmount("1.")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &FieldError{Field: "amount", Err: ErrInvalidAmount}
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, &FieldError{Field: "amount", Err: ErrInvalidAmount}
	}
	if len(parts) == 2 && parts[1] == "" {
		return decimal.Zero, &FieldError{Field: "amount", Err: ErrInvalidAmount}
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, &FieldError{Field: "amount", Err: ErrInvalidAmount}
			}
		}
	}
	d, err := decimal.NewFromString(strings.Join(parts, "."))
	if err != nil {
		return decimal.Zero, &FieldError{Field: "amount", Err: ErrInvalidAmount}
	}
	return d.Round(2), nil
}

// FormatAmount renders an amount the way the dashboard shows it: dollar
// sign, thousands separators and two decimals ("$1,250.50").
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
