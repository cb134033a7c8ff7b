package graph

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOperatorNotRegistered indicates Registry.New was asked for a name with
// no registered constructor.
var ErrOperatorNotRegistered = errors.New("graph: operator not registered")

// Constructor builds an Operator instance from its importer-supplied
// parameters, boxed as any (each registered operator documents its own
// parameter type).
type Constructor func(params any) (Operator, error)

// Registry is a name → constructor map used by importers (spec.md §6,
// "Operator registry"). Names are stable strings such as "MatMul",
// "AddDims", "RmDims". Registry is safe for concurrent Register/New calls,
// though the core itself is single-threaded at the graph level.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register installs the constructor for name, overwriting any previous
// registration — importers typically register once at init time.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// New builds an Operator by name using the registered constructor.
func (r *Registry) New(name string, params any) (Operator, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOperatorNotRegistered, name)
	}

	return ctor(params)
}

// Names returns the currently registered operator names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		out = append(out, n)
	}

	return out
}
