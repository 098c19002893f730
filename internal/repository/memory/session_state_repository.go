package memory

import (
	"time"

	"research-chat-be/pkg/assembly"

	"github.com/patrickmn/go-cache"
)

// SessionState bundles the runtime objects owned by one open chat session.
// The selection store and its assembler live here between requests; the
// database only keeps the last persisted config.
type SessionState struct {
	NotebookID   string
	Store        *assembly.SelectionStore
	Assembler    *assembly.Assembler
	Orchestrator *assembly.Orchestrator
}

type SessionStateRepository struct {
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Idle sessions expire after an hour; expired entries are purged every
	// ten minutes
	return &SessionStateRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *SessionStateRepository) Save(sessionID string, state *SessionState) {
	r.cache.Set(sessionID, state, cache.DefaultExpiration)
}

func (r *SessionStateRepository) Get(sessionID string) (*SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*SessionState), true
	}
	return nil, false
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
