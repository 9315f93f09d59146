package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (that *MemoryStore) Save(_ context.Context, key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	that.mu.Lock()
	that.values[key] = data
	that.mu.Unlock()

	return nil
}

func (that *MemoryStore) Load(_ context.Context, key string, dst any) (bool, error) {
	that.mu.RLock()
	data, ok := that.values[key]
	that.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := decode(data, dst); err != nil {
		return false, err
	}

	return true, nil
}

func (that *MemoryStore) ClearAll(_ context.Context) error {
	that.mu.Lock()
	clear(that.values)
	that.mu.Unlock()

	return nil
}

// Raw returns the encoded value stored under key.
func (that *MemoryStore) Raw(key string) ([]byte, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	data, ok := that.values[key]

	return data, ok
}

// SetRaw stores already encoded data under key.
func (that *MemoryStore) SetRaw(key string, data []byte) {
	that.mu.Lock()
	that.values[key] = data
	that.mu.Unlock()
}

// MemoryGames hands out per-game MemoryStores.
type MemoryGames struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryGames() *MemoryGames {
	return &MemoryGames{
		stores: make(map[string]*MemoryStore),
	}
}

func (that *MemoryGames) Store(gameID string) *MemoryStore {
	that.mu.Lock()
	defer that.mu.Unlock()

	store, ok := that.stores[gameID]
	if !ok {
		store = NewMemoryStore()
		that.stores[gameID] = store
	}

	return store
}

func (that *MemoryGames) Register(_ context.Context, gameID string) error {
	that.Store(gameID)

	return nil
}

func (that *MemoryGames) Exists(_ context.Context, gameID string) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.stores[gameID]

	return ok, nil
}
