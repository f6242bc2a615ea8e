package connection

import (
	"sort"
	"sync"
)

// Registry tracks topic interest for one channel. Membership survives
// disconnects so the manager can replay every desired topic after a
// reconnect, before data for those topics is expected to resume.
type Registry struct {
	mu     sync.Mutex
	topics map[string]struct{}
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{topics: make(map[string]struct{})}
}

// Add records interest in a topic. Returns true if the topic was newly
// added, false if it was already present.
func (r *Registry) Add(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[topic]; exists {
		return false
	}
	r.topics[topic] = struct{}{}
	return true
}

// Remove clears interest in a topic. Returns true if it was present.
func (r *Registry) Remove(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.topics[topic]; !exists {
		return false
	}
	delete(r.topics, topic)
	return true
}

// Has reports whether a topic is currently recorded.
func (r *Registry) Has(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.topics[topic]
	return ok
}

// Topics returns the recorded topics in stable order.
func (r *Registry) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.topics))
	for t := range r.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of recorded topics.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics)
}
