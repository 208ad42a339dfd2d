package backend

import (
	"context"

	"paydash/internal/amqp"
	"paydash/internal/blob"
	"paydash/internal/export"
)

// ChangePublisher receives a message after each committed mutation.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// PingFunc reports whether the storage is reachable.
type PingFunc func(ctx context.Context) error

// BackendResult holds everything the server needs from its environment.
// Publisher and Sheets are nil when their integration is disabled or
// could not be reached at startup.
type BackendResult struct {
	Blobs     blob.Store
	Publisher ChangePublisher
	Sheets    export.Sink
	Ping      PingFunc
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Change feed, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Sheets export, optional
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
