// Package session tracks open roll sessions in memory. Sessions are
// ephemeral: they are closed by the first successful claim or swept by
// an expiry timer, and never persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
)

// slotSymbols in offer order; a roll exposes the first N of them.
var slotSymbols = [domain.MaxRollSlots]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

type entry struct {
	mu      sync.Mutex
	session *domain.RollSession
	timer   *time.Timer
}

type Manager struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*entry
	ttl       time.Duration
	onExpired func(session *domain.RollSession)
}

// NewManager creates a session manager. onExpired is invoked outside
// any lock when an open session times out; it may be nil.
func NewManager(ttl time.Duration, onExpired func(session *domain.RollSession)) *Manager {
	if ttl <= 0 {
		ttl = domain.DefaultRollSessionTTL
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*entry),
		ttl:       ttl,
		onExpired: onExpired,
	}
}

// Open registers a new session offering the given characters and arms
// its expiry timer.
func (m *Manager) Open(guildID, requesterID string, characters []*domain.Character) *domain.RollSession {
	now := time.Now()
	s := &domain.RollSession{
		ID:          uuid.New(),
		GuildID:     guildID,
		RequesterID: requesterID,
		Status:      domain.RollSessionOpen,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	for i, c := range characters {
		if i >= domain.MaxRollSlots {
			break
		}
		s.Slots = append(s.Slots, domain.RollSlot{Symbol: slotSymbols[i], CharacterID: c.ID})
	}

	e := &entry{session: s}
	e.timer = time.AfterFunc(m.ttl, func() { m.expire(s.ID) })

	m.mu.Lock()
	m.sessions[s.ID] = e
	m.mu.Unlock()

	return snapshot(s)
}

// Get returns a copy of the session's current state.
func (m *Manager) Get(id uuid.UUID) (*domain.RollSession, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.session), nil
}

// Attempt resolves one claim attempt. claim must perform the atomic
// catalog compare-and-set for the slot's character and report whether
// it won. Attempts on the same session serialize on the session lock,
// so at most one attempt can close it; a failed compare-and-set leaves
// the session open and its other slots claimable.
func (m *Manager) Attempt(id uuid.UUID, responderID, symbol string, claim func(characterID string) (bool, error)) (*domain.RollSession, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != domain.RollSessionOpen {
		return nil, domain.ErrSessionClosed
	}
	characterID, ok := e.session.Slot(symbol)
	if !ok {
		return nil, domain.ErrUnknownSlot
	}

	won, err := claim(characterID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrCharacterClaimed
	}

	// The claim committed, so the session closes even if the expiry
	// timer fires concurrently: expire() checks the status under the
	// same lock and leaves closed sessions alone. The timer keeps
	// running and sweeps the closed session out of the map at TTL.
	e.session.Status = domain.RollSessionClosed
	e.session.WinnerID = &responderID
	e.session.ClaimedID = &characterID
	return snapshot(e.session), nil
}

func (m *Manager) expire(id uuid.UUID) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	expired := e.session.Status == domain.RollSessionOpen
	if expired {
		e.session.Status = domain.RollSessionExpired
	}
	s := snapshot(e.session)
	e.mu.Unlock()

	if expired && m.onExpired != nil {
		m.onExpired(s)
	}
}

// Stop cancels all timers, for shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(m.sessions, id)
	}
}

// Len reports how many sessions are currently tracked.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func snapshot(s *domain.RollSession) *domain.RollSession {
	dup := *s
	dup.Slots = append([]domain.RollSlot(nil), s.Slots...)
	return &dup
}
