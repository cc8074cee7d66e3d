package session_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCharacters(n int) []*domain.Character {
	chars := make([]*domain.Character, n)
	for i := range chars {
		chars[i] = &domain.Character{
			ID:     fmt.Sprintf("%d", i+1),
			Name:   fmt.Sprintf("Char %d", i+1),
			Rarity: domain.RarityCommon,
		}
	}
	return chars
}

func TestManager_OpenAndGet(t *testing.T) {
	m := session.NewManager(time.Minute, nil)
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(3))
	require.NotNil(t, sess)
	assert.Equal(t, domain.RollSessionOpen, sess.Status)
	assert.Len(t, sess.Slots, 3)
	assert.Equal(t, "1", sess.Slots[0].Symbol)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_AttemptWinsAndCloses(t *testing.T) {
	m := session.NewManager(time.Minute, nil)
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(3))

	won, err := m.Attempt(sess.ID, "user2", "2", func(characterID string) (bool, error) {
		assert.Equal(t, "2", characterID)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RollSessionClosed, won.Status)
	require.NotNil(t, won.WinnerID)
	assert.Equal(t, "user2", *won.WinnerID)
	require.NotNil(t, won.ClaimedID)
	assert.Equal(t, "2", *won.ClaimedID)

	// A closed session rejects further attempts before running the
	// claim callback.
	_, err = m.Attempt(sess.ID, "user3", "1", func(string) (bool, error) {
		t.Fatal("claim callback should not run on a closed session")
		return false, nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestManager_AttemptLostRaceLeavesSessionOpen(t *testing.T) {
	m := session.NewManager(time.Minute, nil)
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(3))

	// The catalog says someone outside this session got there first.
	_, err := m.Attempt(sess.ID, "user2", "1", func(string) (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, domain.ErrCharacterClaimed)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RollSessionOpen, got.Status, "a lost race must not close the session")

	// Another slot can still be won.
	won, err := m.Attempt(sess.ID, "user2", "3", func(string) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RollSessionClosed, won.Status)
}

func TestManager_AttemptUnknownSlot(t *testing.T) {
	m := session.NewManager(time.Minute, nil)
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(2))

	_, err := m.Attempt(sess.ID, "user2", "9", func(string) (bool, error) {
		t.Fatal("claim callback should not run for an unknown slot")
		return false, nil
	})
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)
}

func TestManager_ConcurrentAttemptsSingleWinner(t *testing.T) {
	m := session.NewManager(time.Minute, nil)
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(domain.MaxRollSlots))

	var claims atomic.Int32
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			symbol := fmt.Sprintf("%d", n%domain.MaxRollSlots+1)
			_, err := m.Attempt(sess.ID, fmt.Sprintf("user%d", n), symbol, func(string) (bool, error) {
				claims.Add(1)
				return true, nil
			})
			if err == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one attempt may win")
	assert.Equal(t, int32(1), claims.Load(), "the claim callback must only run for the winning attempt")
}

func TestManager_Expiry(t *testing.T) {
	expired := make(chan *domain.RollSession, 1)
	m := session.NewManager(50*time.Millisecond, func(s *domain.RollSession) {
		expired <- s
	})
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(2))

	select {
	case s := <-expired:
		assert.Equal(t, sess.ID, s.ID)
		assert.Equal(t, domain.RollSessionExpired, s.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not expire")
	}

	_, err := m.Get(sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "expired sessions are swept from the manager")

	_, err = m.Attempt(sess.ID, "user2", "1", func(string) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_ClosedSessionNotReportedExpired(t *testing.T) {
	expired := make(chan *domain.RollSession, 1)
	m := session.NewManager(50*time.Millisecond, func(s *domain.RollSession) {
		expired <- s
	})
	defer m.Stop()

	sess := m.Open("guild1", "user1", testCharacters(1))

	_, err := m.Attempt(sess.ID, "user2", "1", func(string) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)

	select {
	case <-expired:
		t.Fatal("a session closed by a claim must not fire the expiry callback")
	case <-time.After(200 * time.Millisecond):
	}

	assert.Equal(t, 0, m.Len(), "closed session should still be swept at TTL")
}
