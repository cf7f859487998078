// Package registry maps store names to open store.Store instances, lazily
// creating a store on first write and indexing every existing store file on
// startup.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgryski/go-farm"

	"github.com/0xRadioAc7iv/kvstore/internal/lock"
	"github.com/0xRadioAc7iv/kvstore/internal/store"
)

// numStripes is the number of creation-lock stripes. A store name's farm
// hash picks one, so concurrent writers creating unrelated stores don't
// contend a single global lock; writers racing to create the same (or a
// colliding) name serialize on the same stripe.
const numStripes = 32

// Registry is a name -> *store.Store map. It is itself safe for concurrent
// use: reads and existing-store writes only take the map's RWMutex, and the
// compound "check miss, then create" path additionally serializes per-name
// through a stripe of mutexes.
type Registry struct {
	root    string
	mu      sync.RWMutex
	stores  map[string]*store.Store
	stripes [numStripes]sync.Mutex
}

// New scans root for existing store files and opens each one, indexing it
// in the process. root is created if it does not already exist.
func New(root string) (*Registry, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("registry: create root %s: %w", root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("registry: scan root %s: %w", root, err)
	}

	r := &Registry{
		root:   root,
		stores: make(map[string]*store.Store),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if name == lock.FileName {
			continue
		}

		s, err := store.Open(filepath.Join(root, name))
		if err != nil {
			r.CloseAll()
			return nil, fmt.Errorf("registry: open existing store %s: %w", name, err)
		}
		r.stores[name] = s
	}

	return r, nil
}

// Lookup returns the store named name, if one has already been opened or
// created. It never creates a store.
func (r *Registry) Lookup(name string) (*store.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[name]
	return s, ok
}

// GetOrCreate returns the store named name, creating it under root on
// first use if it doesn't exist yet. Concurrent GetOrCreate calls for the
// same name are serialized; calls for different names may proceed in
// parallel unless their names happen to hash to the same stripe.
func (r *Registry) GetOrCreate(name string) (*store.Store, error) {
	if name == lock.FileName {
		return nil, fmt.Errorf("registry: %q is reserved for the root directory lock, not a store name", name)
	}

	if s, ok := r.Lookup(name); ok {
		return s, nil
	}

	stripe := &r.stripes[farm.Hash64([]byte(name))%numStripes]
	stripe.Lock()
	defer stripe.Unlock()

	if s, ok := r.Lookup(name); ok {
		return s, nil
	}

	s, err := store.Open(filepath.Join(r.root, name))
	if err != nil {
		return nil, fmt.Errorf("registry: create store %s: %w", name, err)
	}

	r.mu.Lock()
	r.stores[name] = s
	r.mu.Unlock()

	return s, nil
}

// Names returns the names of every store currently open in the registry.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	return names
}

// CloseAll closes every open store's file handle. It is best-effort: it
// keeps closing the rest even if one store returns an error, and returns
// the first error encountered, if any.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, s := range r.stores {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("registry: close store %s: %w", name, err)
		}
	}
	return firstErr
}
