package backend

import (
	"context"
	"errors"
	"fmt"

	"paydash/internal/amqp"
	blobmemory "paydash/internal/blob/memory"
	blobsqlite "paydash/internal/blob/sqlite"
	plog "paydash/internal/log"
	"paydash/internal/sheets"
	gsheet "paydash/internal/sheets/google"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *plog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *plog.Logger) Factory {
	if logger == nil {
		logger = plog.New(plog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(plog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. Storage failures are
// fatal; the change feed and sheets export degrade to disabled.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result   = &BackendResult{}
		cleanups []CleanupFunc
	)
	switch config.Type {
	case SQLiteBackend:
		store, err := blobsqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite blob store: %w", err)
		}
		result.Blobs = store
		result.Ping = store.Ping
		cleanups = append(cleanups, store.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		result.Blobs = blobmemory.New()
		result.Ping = func(context.Context) error { return nil }
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change feed", plog.FieldError, err)
		} else {
			result.Publisher = client
			cleanups = append(cleanups, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	if config.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			CredentialsJSON: config.GoogleServiceAccountJSON,
			CredentialsFile: config.GoogleServiceAccountFile,
		}, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize Google Sheets client, sheets export disabled", plog.FieldError, err)
		} else {
			result.Sheets = sheets.Exporter{Writer: client, Tab: config.GoogleSheetName}
		}
	}

	result.Cleanup = func() error {
		var errs []error
		for i := len(cleanups) - 1; i >= 0; i-- {
			errs = append(errs, cleanups[i]())
		}
		return errors.Join(errs...)
	}
	return result, nil
}
