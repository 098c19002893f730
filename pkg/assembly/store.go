package assembly

import "sync"

// SelectionStore holds the per-entity inclusion modes the user toggled for
// one chat session. It is owned by the session; the assembler only ever reads
// snapshots of it. Every mutation bumps the generation counter, which is what
// invalidates Ready or in-flight assemblies built from older snapshots.
//
// Mutation and snapshotting happen on real goroutines here, so the store is
// mutex-guarded to preserve the latest-wins rule.
type SelectionStore struct {
	mu          sync.Mutex
	sourceModes map[string]SourceMode
	noteModes   map[string]NoteMode
	generation  uint64
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		sourceModes: make(map[string]SourceMode),
		noteModes:   make(map[string]NoteMode),
	}
}

// NewSelectionStoreFromConfig seeds a store from a persisted config, e.g.
// the one saved on the chat session row.
func NewSelectionStoreFromConfig(cfg ContextConfig) *SelectionStore {
	s := NewSelectionStore()
	for id, mode := range cfg.SourceModes {
		s.sourceModes[id] = mode
	}
	for id, mode := range cfg.NoteModes {
		s.noteModes[id] = mode
	}
	return s
}

// SetSourceMode records the inclusion mode for a source and invalidates any
// assembly built from an earlier snapshot.
func (s *SelectionStore) SetSourceMode(id string, mode SourceMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceModes[id] = mode
	s.generation++
}

// SetNoteMode records the inclusion mode for a note
func (s *SelectionStore) SetNoteMode(id string, mode NoteMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteModes[id] = mode
	s.generation++
}

// Snapshot returns an independent copy of the current config together with
// the generation it was taken at.
func (s *SelectionStore) Snapshot() (ContextConfig, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := ContextConfig{
		SourceModes: make(map[string]SourceMode, len(s.sourceModes)),
		NoteModes:   make(map[string]NoteMode, len(s.noteModes)),
	}
	for id, mode := range s.sourceModes {
		cfg.SourceModes[id] = mode
	}
	for id, mode := range s.noteModes {
		cfg.NoteModes[id] = mode
	}
	return cfg, s.generation
}

// Generation returns the current mutation counter
func (s *SelectionStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
