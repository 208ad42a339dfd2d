// Package store owns the list of payment records and mirrors it to a blob
// store after every mutation.
package store

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"paydash/internal/blob"
	"paydash/internal/core"
	plog "paydash/internal/log"
)

// DefaultKey is the blob key holding the whole collection.
const DefaultKey = "payments"

type Store struct {
	mu      sync.Mutex
	blobs   blob.Store
	key     string
	records []core.PaymentRecord
	newID   func() string
	now     func() time.Time
	logger  *plog.Logger
}

type Option func(*Store)

// WithKey overrides the blob key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithIDGenerator replaces the UUIDv7 id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *plog.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(plog.ComponentStore) }
}

// New returns an empty store. Call Load (or use Open) before serving.
func New(blobs blob.Store, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    DefaultKey,
		newID:  newUUIDv7,
		now:    time.Now,
		logger: plog.New(plog.DefaultConfig()).WithComponent(plog.ComponentStore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads it from the blob store.
func Open(ctx context.Context, blobs blob.Store, opts ...Option) (*Store, error) {
	s := New(blobs, opts...)
	if err := s.Load(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// Load reads the persisted collection. A missing blob seeds the sample
// records and persists them. A blob that cannot be decoded leaves the
// store empty and returns core.ErrCorruptBlob; use Reseed to recover.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return core.PersistenceError("load", err)
	}
	if !ok {
		s.records = core.SampleRecords()
		if err := s.persistLocked(ctx); err != nil {
			s.records = nil
			return err
		}
		s.logger.InfoContext(ctx, "Seeded sample payments", "key", s.key, "count", len(s.records))
		return nil
	}

	records, err := Decode(raw)
	if err != nil {
		s.records = nil
		s.logger.ErrorContext(ctx, "Persisted payments are corrupt", plog.FieldError, err, "key", s.key)
		return err
	}
	s.records = records
	s.logger.InfoContext(ctx, "Loaded payments", "key", s.key, "count", len(records))
	return nil
}

// Reseed backs up whatever is stored under the key to
// "<key>.corrupt.<unix-ms>" and replaces it with the sample records.
func (s *Store) Reseed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return core.PersistenceError("reseed", err)
	}
	if ok {
		backup := s.key + ".corrupt." + strconv.FormatInt(s.now().UnixMilli(), 10)
		if err := s.blobs.Set(ctx, backup, raw); err != nil {
			return core.PersistenceError("backup", err)
		}
		s.logger.WarnContext(ctx, "Backed up previous payments blob", "backup_key", backup, "bytes", len(raw))
	}

	prev := s.records
	s.records = core.SampleRecords()
	if err := s.persistLocked(ctx); err != nil {
		s.records = prev
		return err
	}
	s.logger.WarnContext(ctx, "Reseeded sample payments", "key", s.key)
	return nil
}

// List returns a copy of every record; order is insertion order.
func (s *Store) List() []core.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *Store) Get(id string) (core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return core.PaymentRecord{}, core.NotFoundError(id)
	}
	return s.records[i], nil
}

func (s *Store) Create(ctx context.Context, f core.Fields) (core.PaymentRecord, error) {
	if err := f.Validate(); err != nil {
		return core.PaymentRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := core.PaymentRecord{ID: s.freshIDLocked(), Fields: f}
	prev := s.records
	s.records = append(slices.Clone(prev), rec)
	if err := s.persistLocked(ctx); err != nil {
		s.records = prev
		return core.PaymentRecord{}, err
	}

	s.logger.InfoContext(ctx, "Payment created",
		plog.FieldPaymentID, rec.ID,
		plog.FieldVendor, rec.VendorName,
		plog.FieldAmount, rec.Amount.String(),
		plog.FieldStatus, rec.Status.String())
	return rec, nil
}

func (s *Store) Update(ctx context.Context, id string, f core.Fields) (core.PaymentRecord, error) {
	if err := f.Validate(); err != nil {
		return core.PaymentRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return core.PaymentRecord{}, core.NotFoundError(id)
	}
	rec := core.PaymentRecord{ID: id, Fields: f}
	prev := s.records
	s.records = slices.Clone(prev)
	s.records[i] = rec
	if err := s.persistLocked(ctx); err != nil {
		s.records = prev
		return core.PaymentRecord{}, err
	}

	s.logger.InfoContext(ctx, "Payment updated",
		plog.FieldPaymentID, rec.ID,
		plog.FieldVendor, rec.VendorName,
		plog.FieldAmount, rec.Amount.String(),
		plog.FieldStatus, rec.Status.String())
	return rec, nil
}

// Delete removes the record with id. Deleting an unknown id is a no-op.
// It reports whether a record was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		s.logger.DebugContext(ctx, "Delete of unknown payment ignored", plog.FieldPaymentID, id)
		return false, nil
	}
	prev := s.records
	s.records = slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.persistLocked(ctx); err != nil {
		s.records = prev
		return false, err
	}

	s.logger.InfoContext(ctx, "Payment deleted", plog.FieldPaymentID, id)
	return true, nil
}

// Persist writes the full collection to the blob store.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.records)
	if err != nil {
		return core.PersistenceError("persist", err)
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist payments",
			plog.FieldError, err,
			plog.FieldOperation, plog.OpPersist,
			"key", s.key)
		return core.PersistenceError("persist", err)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.records, func(r core.PaymentRecord) bool { return r.ID == id })
}

func (s *Store) freshIDLocked() string {
	for {
		id := s.newID()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
