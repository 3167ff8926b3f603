package symbols

import (
	"sort"
	"sync"
)

// Registry looks up loaded modules by import path.
type Registry interface {
	Lookup(module string) (Object, bool)
}

// MapRegistry is an in-memory Registry.
type MapRegistry struct {
	mu      sync.RWMutex
	modules map[string]Object
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{modules: make(map[string]Object)}
}

// Register adds or replaces a module.
func (r *MapRegistry) Register(name string, module Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = module
}

func (r *MapRegistry) Lookup(module string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.modules[module]
	return obj, ok
}

// Modules lists registered module names in sorted order.
func (r *MapRegistry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for n := range r.modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
