package session

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

const defaultTTL = 30 * time.Minute

// Store keeps sessions in memory with a TTL. Expiry discards the whole
// session, source photo and results included.
type Store struct {
	c *cache.Cache
}

// NewStore builds a store whose sessions expire ttl after creation.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	cleanup := ttl / 2
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Store{c: cache.New(ttl, cleanup)}
}

// Put registers a session under its ID.
func (st *Store) Put(s *Session) {
	st.c.Set(s.ID, s, cache.DefaultExpiration)
}

// Get looks a session up; ok=false covers both unknown and expired IDs.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete removes a session eagerly.
func (st *Store) Delete(id string) {
	st.c.Delete(id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	return st.c.ItemCount()
}
