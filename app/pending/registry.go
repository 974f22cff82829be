package pending

import (
	"sync"
	"time"
)

const (
	KindVoucher     = "voucher"
	KindReservation = "reservation"
)

// Entry correlates an outbound order id with the business payload to
// finalize once the gateway calls back. The payload is opaque to the
// payment core.
type Entry struct {
	Kind      string
	Payload   any
	CreatedAt time.Time
}

// Registry is the shared map of in-flight payments. Expiry is opportunistic:
// every Put sweeps entries older than the retention window, so abandoned
// attempts cannot grow the map without bound and no background timer is
// needed at this payment volume.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]Entry
	retention time.Duration
	now       func() time.Time
}

func NewRegistry(retention time.Duration) *Registry {
	if retention <= 0 {
		retention = time.Hour
	}
	return &Registry{
		entries:   make(map[string]Entry),
		retention: retention,
		now:       time.Now,
	}
}

func (r *Registry) Put(orderID, kind string, payload any) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.retention)
	for key, entry := range r.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(r.entries, key)
		}
	}

	r.entries[orderID] = Entry{
		Kind:      kind,
		Payload:   payload,
		CreatedAt: now,
	}
}

func (r *Registry) Get(orderID string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[orderID]
	return entry, ok
}

// Remove deletes the entry; removing an absent key is a no-op.
func (r *Registry) Remove(orderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, orderID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
