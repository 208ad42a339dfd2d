// Package worker consumes the payment change feed. Every change is
// written to the audit log and, when a spreadsheet is configured, the
// whole ledger is mirrored to it again.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paydash/internal/amqp"
	"paydash/internal/blob"
	"paydash/internal/core"
	"paydash/internal/export"
	plog "paydash/internal/log"
	"paydash/internal/store"
)

// ChangeWorker handles change messages published by the dashboard.
type ChangeWorker struct {
	blobs  blob.Store
	key    string
	sink   export.Sink
	logger *plog.Logger
	now    func() time.Time
}

// NewChangeWorker reads the ledger from blobs under key. sink may be nil,
// in which case changes are only logged.
func NewChangeWorker(blobs blob.Store, key string, sink export.Sink, logger *plog.Logger) *ChangeWorker {
	if logger == nil {
		logger = plog.New(plog.DefaultConfig())
	}
	return &ChangeWorker{
		blobs:  blobs,
		key:    key,
		sink:   sink,
		logger: logger.WithComponent(plog.ComponentAudit),
		now:    time.Now,
	}
}

// HandleChange processes a single change message from AMQP. A returned
// error requeues the message. A ledger that fails integrity checks will
// not recover on redelivery, so that case is logged and the message acked.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	fields := plog.NewFields().
		WithOperation(string(msg.Op)).
		WithPayment(msg.PaymentID, msg.VendorName, msg.Amount, msg.Status)
	fields["message_id"] = msg.ID
	fields["changed_at"] = msg.Timestamp
	w.logger.InfoContext(ctx, "Payment changed", fields.ToSlice()...)

	if w.sink == nil {
		return nil
	}
	if err := w.Mirror(ctx); err != nil {
		if errors.Is(err, core.ErrDataIntegrity) {
			w.logger.ErrorContext(ctx, "Skipping mirror of corrupt ledger",
				plog.FieldError, err,
				plog.FieldPaymentID, msg.PaymentID,
				"message_id", msg.ID)
			return nil
		}
		return fmt.Errorf("mirror after %s of %s: %w", msg.Op, msg.PaymentID, err)
	}
	return nil
}

// Mirror exports the persisted ledger to the sink. It reads the blob
// directly so the worker never seeds or rewrites it.
func (w *ChangeWorker) Mirror(ctx context.Context) error {
	if w.sink == nil {
		return nil
	}

	raw, ok, err := w.blobs.Get(ctx, w.key)
	if err != nil {
		return fmt.Errorf("read payments: %w", err)
	}
	if !ok {
		w.logger.InfoContext(ctx, "No persisted payments yet, skipping mirror", "key", w.key)
		return nil
	}
	records, err := store.Decode(raw)
	if err != nil {
		return err
	}

	doc := export.Build(records, w.now())
	if err := w.sink.Export(ctx, doc); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mirror payments",
			plog.FieldError, err,
			plog.FieldOperation, plog.OpExport)
		return err
	}
	w.logger.InfoContext(ctx, "Mirrored payments",
		plog.FieldOperation, plog.OpExport,
		plog.FieldCount, len(doc.Rows))
	return nil
}

// StartupMirror runs one mirror before consumption starts, so changes made
// while the worker was down are not missed. Failures are logged only.
func (w *ChangeWorker) StartupMirror(ctx context.Context) {
	if w.sink == nil {
		w.logger.InfoContext(ctx, "Sheets mirror disabled, logging changes only")
		return
	}
	if err := w.Mirror(ctx); err != nil {
		w.logger.WarnContext(ctx, "Startup mirror failed", plog.FieldError, err)
	}
}
