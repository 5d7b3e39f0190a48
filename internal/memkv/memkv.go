// Package memkv is an in-memory implementation of cosmossdk.io/core/store's
// KVStoreService/KVStore, standing in for the IAVL-backed store a real chain
// module would receive from its app wiring. The coordinator keeper only
// depends on the store interfaces, so swapping this for the real backing
// store at deploy time is a one-line change in app wiring, never in the
// keeper.
package memkv

import (
	"context"
	"sort"
	"sync"

	corestore "cosmossdk.io/core/store"
)

// Service implements corestore.KVStoreService over a single shared map.
type Service struct {
	mu    sync.Mutex
	store map[string][]byte
}

// NewService returns an empty backing store.
func NewService() *Service {
	return &Service{store: make(map[string][]byte)}
}

// OpenKVStore returns a handle bound to ctx (ctx is unused; the backing map
// has no per-transaction isolation, matching this package's scope as a test
// and CLI-demo substitute, not a consensus store).
func (s *Service) OpenKVStore(_ context.Context) corestore.KVStore {
	return &kvStore{svc: s}
}

type kvStore struct {
	svc *Service
}

func (k *kvStore) Get(key []byte) ([]byte, error) {
	k.svc.mu.Lock()
	defer k.svc.mu.Unlock()
	v, ok := k.svc.store[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (k *kvStore) Has(key []byte) (bool, error) {
	k.svc.mu.Lock()
	defer k.svc.mu.Unlock()
	_, ok := k.svc.store[string(key)]
	return ok, nil
}

func (k *kvStore) Set(key, value []byte) error {
	k.svc.mu.Lock()
	defer k.svc.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	k.svc.store[string(key)] = cp
	return nil
}

func (k *kvStore) Delete(key []byte) error {
	k.svc.mu.Lock()
	defer k.svc.mu.Unlock()
	delete(k.svc.store, string(key))
	return nil
}

func (k *kvStore) Iterator(start, end []byte) (corestore.Iterator, error) {
	return k.newIterator(start, end, false), nil
}

func (k *kvStore) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	return k.newIterator(start, end, true), nil
}

func (k *kvStore) newIterator(start, end []byte, reverse bool) corestore.Iterator {
	k.svc.mu.Lock()
	defer k.svc.mu.Unlock()

	keys := make([]string, 0, len(k.svc.store))
	for key := range k.svc.store {
		bz := []byte(key)
		if start != nil && string(bz) < string(start) {
			continue
		}
		if end != nil && string(bz) >= string(end) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = k.svc.store[key]
	}

	return &memIterator{keys: keys, values: values, pos: 0, start: start, end: end}
}

type memIterator struct {
	keys       []string
	values     [][]byte
	pos        int
	start, end []byte
}

func (it *memIterator) Domain() ([]byte, []byte) {
	return it.start, it.end
}

func (it *memIterator) Valid() bool {
	return it.pos < len(it.keys)
}

func (it *memIterator) Next() {
	it.pos++
}

func (it *memIterator) Key() []byte {
	return []byte(it.keys[it.pos])
}

func (it *memIterator) Value() []byte {
	return it.values[it.pos]
}

func (it *memIterator) Error() error {
	return nil
}

func (it *memIterator) Close() error {
	it.pos = len(it.keys)
	return nil
}
