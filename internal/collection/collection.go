// Package collection keeps named collections of records as whole JSON
// documents. Every operation loads the full document, works on it in memory
// and, for mutations, writes the full document back.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/order-admin/pkg/logger"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrCollectionMissing = errors.New("collection document missing")
	ErrConflict          = errors.New("record conflicts with an existing record")
)

// Record is implemented by value types stored in a collection. WithID returns
// a copy of the record carrying id.
type Record[T any] interface {
	GetID() int64
	WithID(id int64) T
}

// Backend moves raw collection documents in and out of durable storage.
// Load must wrap ErrCollectionMissing when the document does not exist.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Store serializes read-modify-write cycles on one collection. Keep a single
// Store per collection per process; two Stores over the same document do not
// share the lock.
type Store[T Record[T]] struct {
	name    string
	backend Backend
	logger  *slog.Logger
	mu      sync.RWMutex

	conflicts func(a, b T) bool
}

func NewStore[T Record[T]](name string, backend Backend, lg *slog.Logger) *Store[T] {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Store[T]{
		name:    name,
		backend: backend,
		logger:  lg.With("collection", name),
	}
}

func (s *Store[T]) Name() string {
	return s.name
}

// UniqueBy makes Insert and Update fail with ErrConflict when the written
// record conflicts with any other record of the collection. The check runs
// under the write lock.
func (s *Store[T]) UniqueBy(conflicts func(a, b T) bool) *Store[T] {
	s.conflicts = conflicts
	return s
}

// List returns every record accepted by filter; a nil filter accepts all.
func (s *Store[T]) List(ctx context.Context, filter func(T) bool) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return records, nil
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if filter(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return zero, ErrNotFound
}

// Insert assigns the next id to record, appends it and persists the collection.
func (s *Store[T]) Insert(ctx context.Context, record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}

	created := record.WithID(NextID(records))
	if err := s.checkConflicts(records, created); err != nil {
		return zero, err
	}
	records = append(records, created)
	if err := s.save(ctx, records); err != nil {
		return zero, err
	}

	s.logger.Debug("record inserted", "id", created.GetID(), "total", len(records))
	return created, nil
}

// Update hands the stored record to mutate and persists what it returns. The
// id is pinned: whatever id mutate sets is overwritten. An error from mutate
// aborts the update without writing.
func (s *Store[T]) Update(ctx context.Context, id int64, mutate func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	records, err := s.load(ctx)
	if err != nil {
		return zero, err
	}

	i := indexOf(records, id)
	if i < 0 {
		return zero, ErrNotFound
	}

	updated, err := mutate(records[i])
	if err != nil {
		return zero, err
	}
	updated = updated.WithID(id)
	if err := s.checkConflicts(records, updated); err != nil {
		return zero, err
	}
	records[i] = updated

	if err := s.save(ctx, records); err != nil {
		return zero, err
	}

	s.logger.Debug("record updated", "id", id)
	return updated, nil
}

// Delete removes every record whose id is in ids and returns the removed ids in
// document order.
// Ids that match nothing are ignored.
func (s *Store[T]) Delete(ctx context.Context, ids []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := records[:0:0]
	removed := []int64{}
	for _, r := range records {
		if _, ok := drop[r.GetID()]; ok {
			removed = append(removed, r.GetID())
			continue
		}
		kept = append(kept, r)
	}

	if err := s.save(ctx, kept); err != nil {
		return nil, err
	}

	s.logger.Debug("records deleted", "requested", len(ids), "removed", len(removed))
	return removed, nil
}

// EnsureExists writes an empty document when the collection has none yet.
func (s *Store[T]) EnsureExists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrCollectionMissing) {
		return false, err
	}
	if err := s.save(ctx, []T{}); err != nil {
		return false, err
	}
	return true, nil
}

// Ping reads and decodes the document without keeping it. Health checks
// use it to report a missing or corrupt collection.
func (s *Store[T]) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.load(ctx)
	return err
}

// Reset replaces the collection with an empty document.
func (s *Store[T]) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, []T{})
}

func (s *Store[T]) checkConflicts(records []T, candidate T) error {
	if s.conflicts == nil {
		return nil
	}
	for _, r := range records {
		if r.GetID() != candidate.GetID() && s.conflicts(r, candidate) {
			return ErrConflict
		}
	}
	return nil
}

func (s *Store[T]) load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.backend.Load(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.name, err)
	}
	return Decode[T](data)
}

func (s *Store[T]) save(ctx context.Context, records []T) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}
	if err := s.backend.Save(ctx, s.name, data); err != nil {
		return fmt.Errorf("save %s: %w", s.name, err)
	}
	return nil
}

// Encode renders records as a pretty-printed JSON array. A nil slice encodes
// as [] so documents never hold null.
func Encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a collection document. Blank documents and a literal null
// decode to an empty collection.
func Decode[T any](data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// NextID is max(ids, 0) + 1 over records.
func NextID[T interface{ GetID() int64 }](records []T) int64 {
	var max int64
	for _, r := range records {
		if id := r.GetID(); id > max {
			max = id
		}
	}
	return max + 1
}

func indexOf[T interface{ GetID() int64 }](records []T, id int64) int {
	for i, r := range records {
		if r.GetID() == id {
			return i
		}
	}
	return -1
}
