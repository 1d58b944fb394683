package internal

import (
	"maps"
	"sync"
)

// RuntimeKey names a slot in the per-exchange Runtime extension.
type RuntimeKey string

const (
	// RuntimeDescriptor overrides the contract descriptor in logs, e.g. the
	// synthesized descriptor of an unmatched route.
	RuntimeDescriptor RuntimeKey = "descriptor"

	// RuntimeMatchedPath is the router pattern that matched the request.
	RuntimeMatchedPath RuntimeKey = "matched_path"

	// RuntimeRequestID is the request correlation id.
	RuntimeRequestID RuntimeKey = "request_id"
)

var runtimeKeys = map[RuntimeKey]struct{}{
	RuntimeDescriptor:  {},
	RuntimeMatchedPath: {},
	RuntimeRequestID:   {},
}

// Runtime carries exchange-scoped values between pipeline stages. Only the
// keys declared above are accepted.
type Runtime struct {
	values map[RuntimeKey]string
	mu     sync.RWMutex
}

func newRuntime() *Runtime {
	return &Runtime{values: make(map[RuntimeKey]string, len(runtimeKeys))}
}

// Set stores value under key. It returns ErrUnknownRuntimeKey for keys
// outside the fixed set.
func (r *Runtime) Set(key RuntimeKey, value string) error {
	if _, ok := runtimeKeys[key]; !ok {
		return ErrUnknownRuntimeKey
	}
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()
	return nil
}

// Get returns the value stored under key.
func (r *Runtime) Get(key RuntimeKey) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Snapshot returns a copy of all stored values.
func (r *Runtime) Snapshot() map[RuntimeKey]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.values)
}
