package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/internal/repository/memory"
	"research-chat-be/pkg/assembly"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionManager owns the per-session runtime: the selection store, its
// assembler and the send orchestrator. Runtimes are built lazily from the
// persisted session row and kept in the in-memory registry; an expired
// runtime is rebuilt from the last saved config, so toggles survive
// reconnects.
type SessionManager struct {
	states   *memory.SessionStateRepository
	chatRepo contract.IChatRepository
	resolver assembly.ContentResolver
	executor assembly.ChatExecutor
	notifier assembly.Notifier
	logger   logger.ILogger

	// guards lazy creation so two concurrent requests for one session do
	// not build two competing stores
	mu sync.Mutex
}

func NewSessionManager(
	states *memory.SessionStateRepository,
	chatRepo contract.IChatRepository,
	resolver assembly.ContentResolver,
	executor assembly.ChatExecutor,
	notifier assembly.Notifier,
	log logger.ILogger,
) *SessionManager {
	return &SessionManager{
		states:   states,
		chatRepo: chatRepo,
		resolver: resolver,
		executor: executor,
		notifier: notifier,
		logger:   log,
	}
}

// Runtime returns the live state for a session, creating it on first use.
func (m *SessionManager) Runtime(ctx context.Context, sessionId uuid.UUID) (*memory.SessionState, error) {
	key := sessionId.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if state, found := m.states.Get(key); found {
		return state, nil
	}

	session, err := m.chatRepo.FindSessionByID(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Chat session not found")
	}

	var cfg assembly.ContextConfig
	if len(session.ContextConfig) > 0 {
		if err := json.Unmarshal(session.ContextConfig, &cfg); err != nil {
			m.logger.Warn("SessionManager", "Stored context config is unreadable, starting empty", map[string]interface{}{
				"session_id": key,
				"error":      err.Error(),
			})
			cfg = assembly.ContextConfig{}
		}
	}

	store := assembly.NewSelectionStoreFromConfig(cfg)
	assembler := assembly.NewAssembler(store, m.resolver, session.NotebookId.String(), log.Default())
	orchestrator := assembly.NewOrchestrator(key, assembler, m.executor, m.notifier, log.Default())

	state := &memory.SessionState{
		NotebookID:   session.NotebookId.String(),
		Store:        store,
		Assembler:    assembler,
		Orchestrator: orchestrator,
	}
	m.states.Save(key, state)
	return state, nil
}

// Forget drops the runtime, e.g. when the session is deleted.
func (m *SessionManager) Forget(sessionId uuid.UUID) {
	m.states.Delete(sessionId.String())
}
