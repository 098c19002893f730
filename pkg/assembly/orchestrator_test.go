package assembly

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	mu        sync.Mutex
	calls     int
	lastMsg   string
	assembled *AssembledContext
	reply     string
	err       error
}

func (e *recordingExecutor) Execute(ctx context.Context, sessionID, message string, assembled *AssembledContext) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.lastMsg = message
	e.assembled = assembled
	return e.reply, e.err
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(sessionID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func TestSendAssemblesBeforeDispatch(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	resolver := &fakeResolver{result: &AssembledContext{
		SourceEntries: []ContextEntry{entry("a", "source body")},
		TokenCount:    3,
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())
	executor := &recordingExecutor{reply: "answer [source:a]"}
	notifier := &recordingNotifier{}
	orch := NewOrchestrator("s1", asm, executor, notifier, testLogger())

	reply, assembled, err := orch.Send(context.Background(), "what do sources say?")
	require.NoError(t, err)
	assert.Equal(t, "answer [source:a]", reply)
	assert.Equal(t, 3, assembled.TokenCount)

	assert.Equal(t, 1, executor.calls)
	assert.Equal(t, "what do sources say?", executor.lastMsg)
	require.NotNil(t, executor.assembled, "dispatch must carry the assembled context")
	assert.Equal(t, "source body", executor.assembled.SourceEntries[0].Content)
	assert.Empty(t, notifier.messages)
}

func TestSendAbortsOnAssemblyFailure(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	resolver := &fakeResolver{err: errors.New("resolver broke")}
	asm := NewAssembler(store, resolver, "nb", testLogger())
	executor := &recordingExecutor{reply: "never"}
	notifier := &recordingNotifier{}
	orch := NewOrchestrator("s1", asm, executor, notifier, testLogger())

	_, _, err := orch.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrAssemblyFailed)

	// The model was never reached, the failure surfaced exactly once, and
	// the selection is untouched for the retry.
	assert.Equal(t, 0, executor.calls)
	assert.Len(t, notifier.messages, 1)
	cfg, _ := store.Snapshot()
	assert.Equal(t, SourceModeFull, cfg.SourceModes["a"])
}

// staleOnceResolver supersedes its own first snapshot by toggling the store
// mid-resolve, forcing exactly one retry inside Send.
type staleOnceResolver struct {
	store *SelectionStore
	done  bool
}

func (r *staleOnceResolver) Resolve(ctx context.Context, notebookID string, cfg ContextConfig) (*AssembledContext, error) {
	if !r.done {
		r.done = true
		r.store.SetSourceMode("a", SourceModeInsights)
		return &AssembledContext{SourceEntries: []ContextEntry{entry("a", "built from stale snapshot")}}, nil
	}
	return &AssembledContext{SourceEntries: []ContextEntry{entry("a", "built from latest snapshot")}}, nil
}

func TestSendRetriesSupersededAssembly(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	asm := NewAssembler(store, &staleOnceResolver{store: store}, "nb", testLogger())
	executor := &recordingExecutor{reply: "ok"}
	orch := NewOrchestrator("s1", asm, executor, &recordingNotifier{}, testLogger())

	_, assembled, err := orch.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "built from latest snapshot", assembled.SourceEntries[0].Content)
	assert.Equal(t, 1, executor.calls)
}

func TestRapidTogglesLatestWins(t *testing.T) {
	store := NewSelectionStore()
	resolver := &fakeResolver{result: &AssembledContext{}}
	asm := NewAssembler(store, resolver, "nb", testLogger())
	executor := &recordingExecutor{reply: "ok"}
	orch := NewOrchestrator("s1", asm, executor, &recordingNotifier{}, testLogger())

	// Burst of toggles ending on Off; the send that follows must see the
	// final state only.
	store.SetSourceMode("a", SourceModeFull)
	store.SetSourceMode("a", SourceModeInsights)
	store.SetSourceMode("a", SourceModeFull)
	store.SetSourceMode("a", SourceModeOff)

	_, _, err := orch.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Empty(t, resolver.lastCfg.SourceModes, "Off entry must not reach the resolver")
}

func TestConcurrentSendsSerialized(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)
	resolver := &fakeResolver{result: &AssembledContext{
		SourceEntries: []ContextEntry{entry("a", "text")},
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())
	executor := &recordingExecutor{reply: "ok"}
	orch := NewOrchestrator("s1", asm, executor, &recordingNotifier{}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := orch.Send(context.Background(), "msg")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, executor.calls)
}
