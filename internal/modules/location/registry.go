package location

import (
	"sync"
	"time"

	"ride-hail-backend/internal/models"
)

const shardCount = 32

// Registry is the in-memory store of live driver positions. It is sharded by
// driver id so that concurrent writers for different drivers rarely contend;
// every critical section touches a single key on a single shard. Per driver the
// semantics are last-writer-wins: an Upsert fully replaces the previous entry.
//
// Entries are never evicted for staleness. A stale entry is simply reported
// offline by callers that compare LastUpdate against the staleness window; it
// stays queryable until overwritten or explicitly removed.
type Registry struct {
	shards [shardCount]registryShard
}

type registryShard struct {
	mu      sync.RWMutex
	entries map[int]models.DriverLocation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].entries = make(map[int]models.DriverLocation)
	}
	return r
}

func (r *Registry) shard(driverID int) *registryShard {
	return &r.shards[uint(driverID)%shardCount]
}

// Upsert replaces the entry for loc.DriverID.
func (r *Registry) Upsert(loc models.DriverLocation) {
	s := r.shard(loc.DriverID)
	s.mu.Lock()
	s.entries[loc.DriverID] = loc
	s.mu.Unlock()
}

// Get returns the current entry for driverID, possibly stale.
func (r *Registry) Get(driverID int) (models.DriverLocation, bool) {
	s := r.shard(driverID)
	s.mu.RLock()
	loc, ok := s.entries[driverID]
	s.mu.RUnlock()
	return loc, ok
}

// MarkOffline flips the entry's online flag without removing it, stamping the
// change with the given time. Returns false if no entry exists.
func (r *Registry) MarkOffline(driverID int, at time.Time) bool {
	s := r.shard(driverID)
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.entries[driverID]
	if !ok {
		return false
	}
	loc.Online = false
	loc.LastUpdate = at
	s.entries[driverID] = loc
	return true
}

// Remove deletes the entry for driverID and reports whether one existed.
func (r *Registry) Remove(driverID int) bool {
	s := r.shard(driverID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[driverID]; !ok {
		return false
	}
	delete(s.entries, driverID)
	return true
}

// All returns a point-in-time copy of every entry. The snapshot is consistent
// per shard, not across shards; callers filter and order it as they need.
func (r *Registry) All() []models.DriverLocation {
	var out []models.DriverLocation
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.RLock()
		for _, loc := range s.entries {
			out = append(out, loc)
		}
		s.mu.RUnlock()
	}
	return out
}
