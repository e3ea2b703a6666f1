package session

import (
	"context"
	"sync"
	"time"

	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/logger"
)

// Store keeps one form.State per page session.
//
// Nothing is persisted; a session disappears after it has been idle for the
// store's TTL.
type Store interface {
	// Get returns the state for id, or a fresh state when id is unknown.
	Get(id string) form.State
	// Update applies fn to the state for id atomically and stores the result
	// even when fn returns an error.
	Update(id string, fn func(form.State) (form.State, error)) (form.State, error)
	// Sweep drops sessions idle since before now-TTL and returns how many.
	Sweep(now time.Time) int
}

type entry struct {
	state    form.State
	lastSeen time.Time
}

// MemoryStore is an in-process Store guarded by a single mutex.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	fresh    func() form.State
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store. fresh produces the state of a new session.
func NewMemoryStore(ttl time.Duration, fresh func() form.State) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*entry),
		fresh:    fresh,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(id string) form.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.lastSeen = m.now()
		return e.state
	}
	return m.fresh()
}

func (m *MemoryStore) Update(id string, fn func(form.State) (form.State, error)) (form.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		e = &entry{state: m.fresh()}
		m.sessions[id] = e
	}
	next, err := fn(e.state)
	e.state = next
	e.lastSeen = m.now()
	return next, err
}

func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.sessions {
		// an in-flight session is kept until its response lands
		if e.state.Loading {
			continue
		}
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			if n := m.Sweep(now); n > 0 {
				logger.L().Debug().Int("evicted", n).Int("live", m.Len()).Msg("session sweep")
			}
		}
	}
}
