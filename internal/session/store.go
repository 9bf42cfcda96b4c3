package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions in memory. Nothing survives a restart.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates a Store that expires sessions idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Add registers s.
func (st *Store) Add(s *Session) {
	s.touch(st.now())
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

// Get returns the session with id and marks it as used.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

// Remove forgets the session with id and returns it.
func (st *Store) Remove(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	return s, ok
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []uuid.UUID
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	return len(expired)
}

// Run sweeps periodically until ctx is done.
// This should be called as a goroutine: go store.Run(ctx)
func (st *Store) Run(ctx context.Context) {
	interval := st.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				log.Printf("Expired %d idle sessions", n)
			}
		}
	}
}
