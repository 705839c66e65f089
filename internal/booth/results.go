package booth

import "sync"

// UpdateFunc observes every whole-entry replace in a Results store. It is
// invoked outside the store's lock; implementations must not assume ordering
// across labels.
type UpdateFunc func(label string, r Result)

// AlbumEntry pairs a label with its finished image, in declaration order.
type AlbumEntry struct {
	Label string
	URL   string
}

// Results is the keyed store of per-label outcomes. Mutation is always a
// whole-entry replace, so writers to different labels never conflict.
type Results struct {
	mu       sync.Mutex
	order    []string
	entries  map[string]Result
	onUpdate UpdateFunc
}

// NewResults creates an empty store that will track the given labels in the
// given order.
func NewResults(labels []string) *Results {
	order := make([]string, len(labels))
	copy(order, labels)
	return &Results{
		order:   order,
		entries: make(map[string]Result, len(labels)),
	}
}

// OnUpdate registers a notification hook. Must be set before the pipeline
// starts publishing.
func (s *Results) OnUpdate(fn UpdateFunc) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Labels returns the tracked labels in declaration order.
func (s *Results) Labels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the current result for a label.
func (s *Results) Get(label string) (Result, bool) {
	s.mu.Lock()
	r, ok := s.entries[label]
	s.mu.Unlock()
	return r, ok
}

// Snapshot returns a copy of all current entries.
func (s *Results) Snapshot() map[string]Result {
	s.mu.Lock()
	out := make(map[string]Result, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	s.mu.Unlock()
	return out
}

// AllDone reports whether every tracked label has finished successfully.
func (s *Results) AllDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, label := range s.order {
		if r, ok := s.entries[label]; !ok || r.Status != StatusDone {
			return false
		}
	}
	return true
}

// AllTerminal reports whether every tracked label has settled.
func (s *Results) AllTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, label := range s.order {
		if r, ok := s.entries[label]; !ok || !r.Terminal() {
			return false
		}
	}
	return true
}

// Album returns the done entries with their image URLs, in declaration
// order. It is built fresh on every call.
func (s *Results) Album() []AlbumEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AlbumEntry
	for _, label := range s.order {
		if r, ok := s.entries[label]; ok && r.Status == StatusDone && r.URL != "" {
			out = append(out, AlbumEntry{Label: label, URL: r.URL})
		}
	}
	return out
}

// set replaces the entry for a label and fires the update hook.
func (s *Results) set(label string, r Result) {
	s.mu.Lock()
	s.entries[label] = r
	fn := s.onUpdate
	s.mu.Unlock()
	if fn != nil {
		fn(label, r)
	}
}

// markPending transitions a label to pending unless it is already pending.
// The boolean result is the duplicate-request guard for regenerate.
func (s *Results) markPending(label string) bool {
	s.mu.Lock()
	if r, ok := s.entries[label]; ok && r.Status == StatusPending {
		s.mu.Unlock()
		return false
	}
	s.entries[label] = Result{Status: StatusPending}
	fn := s.onUpdate
	s.mu.Unlock()
	if fn != nil {
		fn(label, Result{Status: StatusPending})
	}
	return true
}
