// SPDX-License-Identifier: MIT

package core

import (
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
)

// trailingDigits extracts the numeric suffix of names such as "latent12".
var trailingDigits = regexp.MustCompile(`(\d+)$`)

// lastIndex backs NextIndex for every Registry, so variables created through different
// registries never share an index.
var lastIndex atomic.Int64

// Registry hands out unique variable names and indices.
//
// Next and Reserve serialize on the same mutex: Reserve lets a loader that encounters an
// externally produced name ("latent7") advance the counter past it, so that a later Next
// never collides with it.
//
// A Registry is passed explicitly wherever variables are created; there is no package-level
// instance.
type Registry struct {
	mu      sync.Mutex
	counter int // last number handed out by Next or observed by Reserve
	names   map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Next returns prefix followed by the next counter value, skipping names already taken.
// Complexity: O(1) amortized.
func (r *Registry) Next(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		r.counter++
		name := prefix + strconv.Itoa(r.counter)
		if _, taken := r.names[name]; !taken {
			r.names[name] = struct{}{}
			return name
		}
	}
}

// Reserve records name as taken. If name ends in an integer larger than the current
// counter, the counter jumps to it.
// Complexity: O(len(name)).
func (r *Registry) Reserve(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[name] = struct{}{}
	m := trailingDigits.FindStringSubmatch(name)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// overflowing suffixes cannot collide with counter-generated names
		return
	}
	if n > r.counter {
		r.counter = n
	}
}

// Taken reports whether name was produced by Next or passed to Reserve.
func (r *Registry) Taken(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.names[name]
	return ok
}

// NextIndex returns a process-unique, monotonically increasing variable index. Indices are
// shared across registries.
func (r *Registry) NextIndex() int {
	return int(lastIndex.Add(1))
}
