// Package app turns user actions into store mutations and re-renders every
// derived view from the resulting state.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"paydash/internal/amqp"
	"paydash/internal/core"
	"paydash/internal/export"
	plog "paydash/internal/log"
	"paydash/internal/metrics"
	"paydash/internal/notify"
	"paydash/internal/projector"
	"paydash/internal/store"
)

// Success messages shown after each action.
const (
	MsgCreated        = "Payment added successfully!"
	MsgUpdated        = "Payment updated successfully!"
	MsgDeleted        = "Payment deleted successfully!"
	MsgExportedCSV    = "Data exported to CSV!"
	MsgExportedSheets = "Data exported to Google Sheets!"
)

// Action names used in logs and metrics.
const (
	ActionCreate  = plog.OpCreate
	ActionUpdate  = plog.OpUpdate
	ActionDelete  = plog.OpDelete
	ActionRefresh = plog.OpRefresh
	ActionFilter  = plog.OpFilter
	ActionExport  = plog.OpExport
)

// Controller runs one action at a time against the store.
type Controller struct {
	mu        sync.Mutex
	store     *store.Store
	filter    projector.Filter
	publisher ChangePublisher
	metrics   *metrics.Collector
	logger    *plog.Logger
	now       func() time.Time
}

type Option func(*Controller)

// WithPublisher enables the change feed. A nil publisher is ignored.
func WithPublisher(p ChangePublisher) Option {
	return func(c *Controller) { c.publisher = p }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithLogger(l *plog.Logger) Option {
	return func(c *Controller) { c.logger = l.WithComponent(plog.ComponentController) }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(s *store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  s,
		logger: plog.New(plog.DefaultConfig()).WithComponent(plog.ComponentController),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filter returns the active filter.
func (c *Controller) Filter() projector.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Payment returns one record, for prefilling the edit form.
func (c *Controller) Payment(id string) (core.PaymentRecord, error) {
	return c.store.Get(id)
}

// Refresh re-renders every view without changing anything.
func (c *Controller) Refresh(ctx context.Context, p Presenter) (projector.Views, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := c.renderLocked(ctx, p)
	c.observe(ctx, p, ActionRefresh, err)
	return v, err
}

// ApplyFilter replaces the active filter and re-renders.
func (c *Controller) ApplyFilter(ctx context.Context, p Presenter, f projector.Filter) (projector.Views, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Status != "" && !f.Status.Valid() {
		err := &core.FieldError{Field: "status", Err: fmt.Errorf("%w %q", core.ErrInvalidStatus, string(f.Status))}
		c.observe(ctx, p, ActionFilter, err)
		return projector.Views{}, err
	}
	prev := c.filter
	c.filter = f
	v, err := c.renderLocked(ctx, p)
	if err != nil {
		c.filter = prev
	}
	c.observe(ctx, p, ActionFilter, err)
	return v, err
}

// ClearFilters resets search, status and vendor and re-renders.
func (c *Controller) ClearFilters(ctx context.Context, p Presenter) (projector.Views, error) {
	return c.ApplyFilter(ctx, p, projector.Filter{})
}

func (c *Controller) Create(ctx context.Context, p Presenter, form PaymentForm) (core.PaymentRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := form.Fields()
	if err != nil {
		c.observe(ctx, p, ActionCreate, err)
		return core.PaymentRecord{}, err
	}
	rec, err := c.store.Create(ctx, fields)
	if err != nil {
		c.observe(ctx, p, ActionCreate, err)
		return core.PaymentRecord{}, err
	}
	err = c.afterMutation(ctx, p, ActionCreate, MsgCreated, amqp.OpCreated, rec)
	return rec, err
}

func (c *Controller) Update(ctx context.Context, p Presenter, id string, form PaymentForm) (core.PaymentRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := form.Fields()
	if err != nil {
		c.observe(ctx, p, ActionUpdate, err)
		return core.PaymentRecord{}, err
	}
	rec, err := c.store.Update(ctx, id, fields)
	if err != nil {
		c.observe(ctx, p, ActionUpdate, err)
		return core.PaymentRecord{}, err
	}
	err = c.afterMutation(ctx, p, ActionUpdate, MsgUpdated, amqp.OpUpdated, rec)
	return rec, err
}

// Delete removes id and reports whether a record was removed. An unknown
// id changes nothing but still re-renders and reports success.
func (c *Controller) Delete(ctx context.Context, p Presenter, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.store.Delete(ctx, id)
	if err != nil {
		c.observe(ctx, p, ActionDelete, err)
		return false, err
	}
	op := amqp.OpDeleted
	if !removed {
		op = ""
	}
	return removed, c.afterMutation(ctx, p, ActionDelete, MsgDeleted, op, core.PaymentRecord{ID: id})
}

// Export sends the full, unfiltered list to sink. success is the toast
// shown when the sink accepts the document.
func (c *Controller) Export(ctx context.Context, p Presenter, sink export.Sink, success string) (export.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := export.Build(c.store.List(), c.now())
	if err := sink.Export(ctx, doc); err != nil {
		c.observe(ctx, p, ActionExport, err)
		return export.Document{}, err
	}
	c.observe(ctx, nil, ActionExport, nil)
	p.Notify(success, notify.SeveritySuccess)
	return doc, nil
}

// afterMutation re-renders from the committed state, notifies and
// publishes. op is empty when nothing changed.
func (c *Controller) afterMutation(ctx context.Context, p Presenter, action, msg string, op amqp.ChangeOp, rec core.PaymentRecord) error {
	if _, err := c.renderLocked(ctx, p); err != nil {
		c.observe(ctx, p, action, err)
		return err
	}
	c.observe(ctx, nil, action, nil)
	p.Notify(msg, notify.SeveritySuccess)
	if op != "" {
		c.publish(ctx, op, rec)
	}
	return nil
}

func (c *Controller) renderLocked(ctx context.Context, p Presenter) (projector.Views, error) {
	v, err := projector.Compute(c.store.List(), c.filter)
	if err != nil {
		return projector.Views{}, err
	}
	if v.VendorSelection != c.filter.Vendor {
		c.logger.DebugContext(ctx, "Vendor filter reset", plog.FieldVendor, c.filter.Vendor)
	}
	c.filter = v.Filter

	p.RenderTable(v.Rows)
	p.RenderStats(v.Stats)
	p.RenderVendorFilter(v.Vendors, v.VendorSelection)
	p.RenderCharts(v.StatusCounts, v.ChartMonths)

	if c.metrics != nil {
		counts := make(map[string]int, len(v.StatusCounts))
		for st, n := range v.StatusCounts {
			counts[st.String()] = n
		}
		c.metrics.SetLedger(counts, v.Stats.TotalAmount)
	}
	return v, nil
}

func (c *Controller) publish(ctx context.Context, op amqp.ChangeOp, rec core.PaymentRecord) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishChange(ctx, amqp.NewChangeMessage(op, rec)); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish payment change",
			plog.FieldError, err,
			plog.FieldPaymentID, rec.ID,
			plog.FieldOperation, string(op))
		if c.metrics != nil {
			c.metrics.PublishFailed()
		}
	}
}

// observe records the outcome of an action. A non-nil p with a non-nil
// err gets an error toast.
func (c *Controller) observe(ctx context.Context, p Notifier, action string, err error) {
	if c.metrics != nil {
		c.metrics.ObserveAction(action, err)
	}
	if err == nil {
		return
	}
	c.logger.WarnContext(ctx, "Action failed",
		plog.FieldOperation, action,
		plog.FieldError, err,
		plog.FieldErrorType, core.Kind(err))
	if p != nil {
		p.Notify(UserMessage(err), notify.SeverityError)
	}
}

// UserMessage is the toast text for an action error.
func UserMessage(err error) string {
	var fe *core.FieldError
	switch {
	case errors.As(err, &fe):
		return "Please check " + fieldLabel(fe.Field) + ": " + fe.Err.Error()
	case errors.Is(err, core.ErrNotFound):
		return "Payment not found."
	case errors.Is(err, core.ErrPersistence):
		return "Could not save payments. Please try again."
	case errors.Is(err, core.ErrDataIntegrity):
		return "Stored payment data is inconsistent."
	default:
		return "Something went wrong."
	}
}

func fieldLabel(field string) string {
	switch field {
	case "vendorName":
		return "Vendor Name"
	case "amount":
		return "Amount"
	case "paymentDate":
		return "Payment Date"
	case "dueDate":
		return "Due Date"
	case "status":
		return "Status"
	case "paymentMethod":
		return "Payment Method"
	default:
		return field
	}
}
