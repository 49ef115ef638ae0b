package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/papercomputeco/lingo/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of records
	mu sync.RWMutex

	// records is keyed by record ID
	records map[string]*storage.Record
}

// NewDriver creates a new in-memory storer.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[string]*storage.Record),
	}
}

// Put stores a copy of rec, replacing any record with the same ID.
func (s *Driver) Put(_ context.Context, rec *storage.Record) error {
	if rec == nil {
		return storage.ErrNilRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

// Get retrieves a record by its ID.
func (s *Driver) Get(_ context.Context, id string) (*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, storage.NotFound(id)
	}

	out := *rec
	return &out, nil
}

// List returns records newest first.
func (s *Driver) List(_ context.Context, opts storage.ListOptions) ([]*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*storage.Record, 0, len(s.records))
	for _, rec := range s.records {
		if opts.Provider != "" && rec.Provider != opts.Provider {
			continue
		}
		out := *rec
		all = append(all, &out)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].StartedAt.Equal(all[j].StartedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].StartedAt.After(all[j].StartedAt)
	})

	if opts.Offset >= len(all) {
		return []*storage.Record{}, nil
	}
	all = all[opts.Offset:]

	if limit := opts.EffectiveLimit(); len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Count returns the number of records in the in-memory store.
func (s *Driver) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op for the in-memory storer.
func (s *Driver) Close() error {
	return nil
}
