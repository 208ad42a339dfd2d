// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"paydash/internal/app"
	"paydash/internal/core"
	"paydash/internal/projector"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// errInvalidBody is returned for bodies that are neither JSON nor a form.
var errInvalidBody = errors.New("invalid request body")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = errors.Join(errInvalidBody, p.err)
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]interface{})
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = errors.Join(errInvalidBody, err)
			return p.err
		}
		return nil
	}

	formData, err := url.ParseQuery(string(trimmed))
	if err != nil {
		p.err = errors.Join(errInvalidBody, err)
		return p.err
	}
	p.formData = formData
	return nil
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// PaymentForm reads the payment fields from the parsed body.
func (p *RequestBodyParser) PaymentForm() app.PaymentForm {
	return app.PaymentForm{
		VendorName:    p.Get("vendorName"),
		Amount:        p.Get("amount"),
		PaymentDate:   p.Get("paymentDate"),
		DueDate:       p.Get("dueDate"),
		Status:        p.Get("status"),
		PaymentMethod: p.Get("paymentMethod"),
		InvoiceNumber: p.Get("invoiceNumber"),
		Description:   p.Get("description"),
	}
}

// stringValue converts a decoded JSON value to string. Numbers keep their
// literal text so amounts are not rounded through float64.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab, LF and CR.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// filterFromQuery builds a filter from the dashboard query string. ok is
// false when the query names no filter at all.
func filterFromQuery(q url.Values) (f projector.Filter, ok bool) {
	for _, key := range []string{"search", "status", "vendor"} {
		if _, present := q[key]; present {
			ok = true
		}
	}
	f = projector.Filter{
		Search: sanitizeInput(q.Get("search")),
		Status: core.Status(strings.TrimSpace(q.Get("status"))),
		Vendor: sanitizeInput(q.Get("vendor")),
	}
	return f, ok
}
