package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"paydash/internal/amqp"
	"paydash/internal/app"
	"paydash/internal/core"
	"paydash/internal/export"
	plog "paydash/internal/log"
	"paydash/internal/notify"
	"paydash/internal/projector"
)

// handleDashboard renders every view. Query parameters replace the active
// filter; without them the previous filter stays in effect.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := newViewCapture(s.board)

	var (
		views projector.Views
		err   error
	)
	if f, ok := filterFromQuery(r.URL.Query()); ok {
		views, err = s.ctrl.ApplyFilter(r.Context(), p, f)
	} else {
		views, err = s.ctrl.Refresh(r.Context(), p)
	}
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}

	NewHTMXResponse().
		JSON(p.dashboard(views.Filter)).
		Write(w)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ctrl.Payment(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, nil, err)
		return
	}

	NewHTMXResponse().
		JSON(struct {
			ID string `json:"id"`
			app.PaymentForm
		}{ID: rec.ID, PaymentForm: app.FormFromRecord(rec)}).
		Write(w)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	p := newViewCapture(s.board)
	rec, err := s.ctrl.Create(r.Context(), p, form)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}
	s.writeMutation(w, p, http.StatusCreated, amqp.OpCreated, &rec)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	p := newViewCapture(s.board)
	rec, err := s.ctrl.Update(r.Context(), p, r.PathValue("id"), form)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}
	s.writeMutation(w, p, http.StatusOK, amqp.OpUpdated, &rec)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p := newViewCapture(s.board)
	removed, err := s.ctrl.Delete(r.Context(), p, id)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}
	var op amqp.ChangeOp
	if removed {
		op = amqp.OpDeleted
	}
	s.writeMutation(w, p, http.StatusOK, op, &core.PaymentRecord{ID: id})
}

func (s *Server) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	p := newViewCapture(s.board)
	views, err := s.ctrl.ClearFilters(r.Context(), p)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}
	NewHTMXResponse().
		JSON(p.dashboard(views.Filter)).
		Write(w)
}

// handleExportCSV downloads every payment, ignoring the active filter.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	p := newViewCapture(s.board)
	var body []byte
	sink := export.SinkFunc(func(_ context.Context, doc export.Document) error {
		body = doc.CSV()
		return nil
	})

	doc, err := s.ctrl.Export(r.Context(), p, sink, app.MsgExportedCSV)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}

	NewHTMXResponse().
		Header("Content-Type", "text/csv; charset=utf-8").
		Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`).
		Header("Content-Length", strconv.Itoa(len(body))).
		TriggerToast(p.toast, durationMs(s.board.TTL())).
		Body(body).
		Write(w)
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.sheets == nil {
		ServiceUnavailableError("Google Sheets export is not configured").Write(w)
		return
	}
	p := newViewCapture(s.board)
	doc, err := s.ctrl.Export(r.Context(), p, s.sheets, app.MsgExportedSheets)
	if err != nil {
		s.writeError(w, r, p, err)
		return
	}

	NewHTMXResponse().
		JSON(map[string]any{
			"rows":         len(doc.Rows),
			"notification": p.toast,
		}).
		TriggerToast(p.toast, durationMs(s.board.TTL())).
		Write(w)
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	toast, ok := s.board.Current(s.now())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	NewHTMXResponse().
		Header("Cache-Control", "no-store").
		JSON(toast).
		Write(w)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.board.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// parseForm reads a payment from a JSON or form body. It writes a 400 and
// returns false on an unreadable body.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (app.PaymentForm, bool) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		plog.FromContext(r.Context()).WarnContext(r.Context(), "Unreadable request body",
			plog.FieldError, err,
			plog.FieldErrorType, "validation_error")
		BadRequestError("Invalid request body").
			TriggerNotification(notify.SeverityError, "Invalid request body", durationMs(s.board.TTL())).
			Write(w)
		return app.PaymentForm{}, false
	}
	return parser.PaymentForm(), true
}

// writeMutation answers a create, update or delete. An empty op means
// nothing changed, so no payments:changed event is sent.
func (s *Server) writeMutation(w http.ResponseWriter, p *viewCapture, status int, op amqp.ChangeOp, rec *core.PaymentRecord) {
	body := mutationDTO{
		Dashboard:    p.dashboard(s.ctrl.Filter()),
		Notification: p.toast,
	}
	if op == amqp.OpCreated || op == amqp.OpUpdated {
		dto := newPaymentDTO(*rec)
		body.Payment = &dto
	}

	resp := NewHTMXResponse().Status(status)
	if op != "" {
		resp.TriggerPaymentsChanged(op, rec.ID)
	}
	resp.TriggerToast(p.toast, durationMs(s.board.TTL())).
		JSON(body).
		Write(w)
}

// writeError maps an action error to a status code and echoes the error
// toast the controller raised, if any.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, p *viewCapture, err error) {
	status := statusFor(err)
	body := errorBody{Error: app.UserMessage(err), Kind: core.Kind(err)}
	var fe *core.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
	}

	if status >= http.StatusInternalServerError {
		plog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			plog.FieldError, err,
			plog.FieldErrorType, body.Kind,
			plog.FieldPath, r.URL.Path)
	}

	b := NewHTMXResponse().Status(status).JSON(body)
	if p != nil {
		b.TriggerToast(p.toast, durationMs(s.board.TTL()))
	}
	b.Write(w)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
