package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lsandon/fertiviltro-app/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection names, also the file names used by the JSON driver.
const (
	CollectionClients    = "clients"
	CollectionProcesses  = "processes"
	CollectionClaims     = "reclamaciones"
	CollectionUsers      = "users"
	CollectionDonors     = "donadoras"
	CollectionRecipients = "receptoras"

	// CollectionSequences holds the highest id ever issued per collection.
	CollectionSequences = "sequences"
)

var storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fertilvitro_store_operations_total",
	Help: "Collection loads and saves by collection and result.",
}, []string{"collection", "op", "result"})

// Store loads and saves whole collections through a RecordStore and hands
// out per-collection write locks.
type Store struct {
	Backend ports.RecordStore
	Logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	seqMu sync.Mutex
}

func NewStore(backend ports.RecordStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Backend: backend, Logger: logger, locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the write locks of the named collections and returns the
// function releasing them. Locks are always taken in name order so two
// writers touching overlapping collections cannot deadlock.
func (s *Store) Lock(names ...string) func() {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	s.mu.Lock()
	held := make([]*sync.Mutex, 0, len(sorted))
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			continue
		}
		m, ok := s.locks[name]
		if !ok {
			m = &sync.Mutex{}
			s.locks[name] = m
		}
		held = append(held, m)
	}
	s.mu.Unlock()

	for _, m := range held {
		m.Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func loadAll[T any](ctx context.Context, s *Store, collection string) ([]T, error) {
	data, err := s.Backend.Load(ctx, collection)
	if errors.Is(err, ports.ErrCollectionNotFound) {
		storeOps.WithLabelValues(collection, "load", "missing").Inc()
		s.Logger.Warn("collection not found, starting empty", "collection", collection)
		return []T{}, nil
	}
	if err != nil {
		storeOps.WithLabelValues(collection, "load", "error").Inc()
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	var rows []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rows); err != nil {
			storeOps.WithLabelValues(collection, "load", "error").Inc()
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
	}
	if rows == nil {
		rows = []T{}
	}
	storeOps.WithLabelValues(collection, "load", "ok").Inc()
	return rows, nil
}

func saveAll[T any](ctx context.Context, s *Store, collection string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.Backend.Save(ctx, collection, data); err != nil {
		storeOps.WithLabelValues(collection, "save", "error").Inc()
		return fmt.Errorf("save %s: %w", collection, err)
	}
	storeOps.WithLabelValues(collection, "save", "ok").Inc()
	return nil
}

// allocate issues the next id of collection and persists it as the new
// high-water mark. The id is never below floor, so rows written before the
// sequence existed stay unique.
func (s *Store) allocate(ctx context.Context, collection string, floor int64) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	seqs := map[string]int64{}
	data, err := s.Backend.Load(ctx, CollectionSequences)
	switch {
	case errors.Is(err, ports.ErrCollectionNotFound):
	case err != nil:
		storeOps.WithLabelValues(CollectionSequences, "load", "error").Inc()
		return 0, fmt.Errorf("load %s: %w", CollectionSequences, err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &seqs); err != nil {
			storeOps.WithLabelValues(CollectionSequences, "load", "error").Inc()
			return 0, fmt.Errorf("decode %s: %w", CollectionSequences, err)
		}
	}

	id := max(floor, seqs[collection]+1)
	seqs[collection] = id
	out, err := json.MarshalIndent(seqs, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", CollectionSequences, err)
	}
	if err := s.Backend.Save(ctx, CollectionSequences, out); err != nil {
		storeOps.WithLabelValues(CollectionSequences, "save", "error").Inc()
		return 0, fmt.Errorf("save %s: %w", CollectionSequences, err)
	}
	storeOps.WithLabelValues(CollectionSequences, "save", "ok").Inc()
	return id, nil
}

// Record is any stored entity with a numeric id.
type Record interface {
	RecordID() int64
}

// NextID returns max(existing)+1, or 1 for an empty collection. Creates go
// through AllocateID, which also remembers deleted ids.
func NextID[T Record](rows []T) int64 {
	var highest int64
	for _, r := range rows {
		if id := r.RecordID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}

// IndexByID returns the position of the row with the given id, or -1.
func IndexByID[T Record](rows []T, id int64) int {
	for i, r := range rows {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// RemoveByID drops the row with the given id and reports whether it existed.
func RemoveByID[T Record](rows []T, id int64) ([]T, bool) {
	i := IndexByID(rows, id)
	if i < 0 {
		return rows, false
	}
	return append(rows[:i:i], rows[i+1:]...), true
}
