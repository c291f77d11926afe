package practice

import (
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/skills"
)

// Store is the keyed in-memory table of live sessions. It owns creation
// and destruction; per-session mutation is serialized by the session's own
// lock, so the store lock is only held for map access.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create initializes a session for the skill with the given seed question
// and inserts it under a fresh identifier. UUIDs make collisions
// negligible; the insert still verifies uniqueness against live sessions.
func (st *Store) Create(skill skills.Skill, seed problemgen.Question) *Session {
	sess := &Session{
		Skill:             skill,
		CurrentDifficulty: skills.Easy,
		CurrentQuestion:   seed.Text,
		CurrentAnswer:     seed.Answer,
		MasteryProb:       mastery.Initial,
		HintsRemaining:    HintBudget,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for {
		id := uuid.NewString()
		if _, taken := st.sessions[id]; taken {
			continue
		}
		sess.ID = id
		st.sessions[id] = sess
		return sess
	}
}

// Get looks up a live session.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
