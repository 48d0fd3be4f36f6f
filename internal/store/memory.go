package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory storage. It is the default
// backend for the server and the one the tests run against.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]*Batch
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		batches: make(map[string]*Batch),
	}
}

func (m *MemoryStore) CreateBatch(ctx context.Context, batch *Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	m.batches[batch.ID] = batch
	return nil
}

func (m *MemoryStore) GetBatch(ctx context.Context, batchID string) (*Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	batch, ok := m.batches[batchID]
	if !ok {
		return nil, ErrNotFound
	}
	return batch, nil
}

func (m *MemoryStore) DeleteBatch(ctx context.Context, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.batches[batchID]; !ok {
		return ErrNotFound
	}
	delete(m.batches, batchID)
	return nil
}

// ListBatches returns batches newest first with cursor pagination.
func (m *MemoryStore) ListBatches(ctx context.Context, pageSize int, pageToken string) ([]*Batch, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if pageSize <= 0 {
		pageSize = 50
	}

	all := make([]*Batch, 0, len(m.batches))
	for _, b := range m.batches {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", err
		}
		for i, b := range all {
			if b.ID == cursorID {
				startIdx = i + 1
				break
			}
		}
	}

	all = all[startIdx:]
	var nextToken string
	if len(all) > pageSize {
		nextToken = EncodePageToken(all[pageSize-1].ID)
		all = all[:pageSize]
	}
	return all, nextToken, nil
}
