package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paydash/internal/amqp"
	"paydash/internal/notify"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("HX-Trigger should be absent without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerPaymentsChanged(amqp.OpUpdated, "42").
		TriggerNotification(notify.SeveritySuccess, "Payment updated successfully!", 5000).
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	expectedParts := []string{
		`"payments:changed"`,
		`"op":"updated"`,
		`"id":"42"`,
		`"show-notification"`,
		`"type":"success"`,
		`"duration":5000`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_TriggerToast(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().TriggerToast(nil, 5000).Write(w)
	if w.Header().Get("HX-Trigger") != "" {
		t.Errorf("nil toast must not add a trigger")
	}

	w = httptest.NewRecorder()
	NewHTMXResponse().
		TriggerToast(&notify.Toast{Message: "boom", Severity: notify.SeverityError}, 5000).
		Write(w)
	if !strings.Contains(w.Header().Get("HX-Trigger"), `"message":"boom"`) {
		t.Errorf("toast trigger = %s", w.Header().Get("HX-Trigger"))
	}
}

func TestHTMXResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Header("X-Custom", "value").
		Status(http.StatusCreated).
		JSON(map[string]int{"n": 1}).
		Write(w)

	if w.Header().Get("X-Custom") != "value" {
		t.Errorf("Custom header not set")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	NewHTMXResponse().JSON(make(chan int)).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("unencodable body status = %d", w.Code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
	}{
		{"bad request", BadRequestError("Invalid input"), http.StatusBadRequest},
		{"not found", NotFoundError("Resource not found"), http.StatusNotFound},
		{"unavailable", ServiceUnavailableError("off"), http.StatusServiceUnavailable},
		{"too many", TooManyRequestsError("slow down"), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.HasPrefix(w.Body.String(), `{"error":`) {
				t.Errorf("Body = %q", w.Body.String())
			}
		})
	}
}
