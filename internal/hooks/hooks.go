// Package hooks implements a priority-ordered callback registry in the
// style of plugin hook systems: named filters transform a value through a
// chain of callbacks, named actions fire side effects. Dispatch is
// re-entrant and the registry may be mutated while a dispatch is running.
package hooks

import (
	"sort"
	"sync"
)

// Callback transforms a value. Filters return the (possibly replaced)
// value; action callbacks ignore the return value.
type Callback func(value any, args ...any) any

// DefaultPriority is used when callers have no ordering preference.
const DefaultPriority = 10

type registration struct {
	id       string
	priority int
	seq      uint64
	fn       Callback
}

// hookEntry holds the registrations for one hook name.
type hookEntry struct {
	regs []registration
}

// Registry stores callbacks per hook name and dispatches them in ascending
// priority order. Registration order breaks priority ties. Safe for
// concurrent registration; dispatch takes a snapshot at iteration start, so
// mutations made by running callbacks affect only not-yet-started dispatches
// of the same hook, never the snapshot being iterated.
//
// Dispatching from multiple goroutines at once is safe, but the nesting
// metadata (CurrentHook, Depth) tracks one logical dispatch stack per
// registry: it reflects re-entrant dispatch on a single goroutine and is
// not meaningful while several goroutines dispatch concurrently. Use one
// registry per dispatching goroutine when that distinction matters.
type Registry struct {
	mu      sync.Mutex
	hooks   map[string]*hookEntry
	seq     uint64
	stack   []string       // hook names of in-flight dispatches, innermost last
	actions map[string]int // completed dispatch counts per hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:   make(map[string]*hookEntry),
		actions: make(map[string]int),
	}
}

// AddFilter registers fn under the hook name with the given priority.
// id identifies the registration for later removal; registering the same
// id again on the same hook replaces the old callback and priority.
func (r *Registry) AddFilter(name, id string, fn Callback, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.hooks[name]
	if entry == nil {
		entry = &hookEntry{}
		r.hooks[name] = entry
	}

	for i := range entry.regs {
		if entry.regs[i].id == id {
			entry.regs[i].priority = priority
			entry.regs[i].fn = fn
			return
		}
	}

	r.seq++
	entry.regs = append(entry.regs, registration{id: id, priority: priority, seq: r.seq, fn: fn})
}

// AddAction registers an action callback. Actions and filters share one
// registry; the distinction is only whether the dispatch site cares about
// the returned value.
func (r *Registry) AddAction(name, id string, fn Callback, priority int) {
	r.AddFilter(name, id, fn, priority)
}

// RemoveFilter removes the registration with the given id from the hook.
// Returns true if a registration was removed.
func (r *Registry) RemoveFilter(name, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.hooks[name]
	if entry == nil {
		return false
	}
	for i := range entry.regs {
		if entry.regs[i].id == id {
			entry.regs = append(entry.regs[:i], entry.regs[i+1:]...)
			if len(entry.regs) == 0 {
				delete(r.hooks, name)
			}
			return true
		}
	}
	return false
}

// RemoveAllFilters removes every registration for the hook. Returns the
// number removed.
func (r *Registry) RemoveAllFilters(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.hooks[name]
	if entry == nil {
		return 0
	}
	n := len(entry.regs)
	delete(r.hooks, name)
	return n
}

// HasFilter reports whether any callback is registered for the hook; with a
// non-empty id it reports whether that specific registration exists.
func (r *Registry) HasFilter(name, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.hooks[name]
	if entry == nil {
		return false
	}
	if id == "" {
		return len(entry.regs) > 0
	}
	for i := range entry.regs {
		if entry.regs[i].id == id {
			return true
		}
	}
	return false
}

// ApplyFilters runs the hook's callbacks in ascending priority order,
// threading value through each. The callback list is snapshotted before the
// first call: a callback that adds or removes registrations on the same
// hook changes future dispatches, not the one in flight.
func (r *Registry) ApplyFilters(name string, value any, args ...any) any {
	snapshot := r.snapshot(name)

	r.mu.Lock()
	r.stack = append(r.stack, name)
	r.mu.Unlock()

	for _, reg := range snapshot {
		value = reg.fn(value, args...)
	}

	r.mu.Lock()
	r.stack = r.stack[:len(r.stack)-1]
	r.actions[name]++
	r.mu.Unlock()

	return value
}

// DoAction runs the hook's callbacks for their side effects.
func (r *Registry) DoAction(name string, args ...any) {
	r.ApplyFilters(name, nil, args...)
}

// CurrentHook returns the name of the innermost hook being dispatched, or
// "" when no dispatch is running on this registry. With concurrent
// dispatches the innermost entry may belong to another goroutine.
func (r *Registry) CurrentHook() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the current dispatch nesting depth.
func (r *Registry) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// DidAction returns how many times the hook has completed dispatch.
func (r *Registry) DidAction(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[name]
}

// snapshot copies the hook's registrations sorted by (priority, seq).
func (r *Registry) snapshot(name string) []registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.hooks[name]
	if entry == nil {
		return nil
	}
	regs := make([]registration, len(entry.regs))
	copy(regs, entry.regs)
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	return regs
}
