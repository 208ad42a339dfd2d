package app

import (
	"context"

	"github.com/shopspring/decimal"

	"paydash/internal/amqp"
	"paydash/internal/core"
	"paydash/internal/notify"
	"paydash/internal/projector"
)

// Ports implemented by the presentation layer.
type (
	// Renderer redraws the four derived views.
	Renderer interface {
		RenderTable(rows []core.PaymentRecord)
		RenderStats(stats projector.Stats)
		RenderVendorFilter(vendors []string, selected string)
		RenderCharts(counts projector.StatusCounts, months [projector.ChartMonthCount]decimal.Decimal)
	}

	// Notifier shows a transient toast.
	Notifier interface {
		Notify(message string, severity notify.Severity)
	}

	Presenter interface {
		Renderer
		Notifier
	}

	// ChangePublisher is told about every committed mutation.
	ChangePublisher interface {
		PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
	}
)
