package project

import "sync"

// inflightTable is a single-slot in-flight guard keyed by project id:
// a second save for the same id fails fast instead of racing the first.
type inflightTable struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newInflightTable() *inflightTable {
	return &inflightTable{ids: make(map[string]struct{})}
}

// TryAcquire claims the slot for id. Returns false if already held.
func (t *inflightTable) TryAcquire(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.ids[id]; busy {
		return false
	}
	t.ids[id] = struct{}{}
	return true
}

// Release frees the slot. Safe to call on an unheld id.
func (t *inflightTable) Release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}
