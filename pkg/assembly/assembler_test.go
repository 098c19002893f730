package assembly

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

// fakeResolver returns scripted results and can block mid-resolve so a test
// can mutate the store while an assembly is in flight.
type fakeResolver struct {
	mu      sync.Mutex
	result  *AssembledContext
	err     error
	gate    chan struct{} // when set, Resolve blocks until the gate closes
	started chan struct{} // when set, closed once Resolve has been entered
	calls   int
	lastCfg ContextConfig
}

func (f *fakeResolver) Resolve(ctx context.Context, notebookID string, cfg ContextConfig) (*AssembledContext, error) {
	f.mu.Lock()
	f.calls++
	f.lastCfg = cfg
	gate := f.gate
	if f.started != nil && f.calls == 1 {
		close(f.started)
	}
	result, err := f.result, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return result, err
}

func entry(id, content string) ContextEntry {
	return ContextEntry{ID: id, Content: content, CharCount: len(content)}
}

func TestAssembleSuccess(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	resolver := &fakeResolver{result: &AssembledContext{
		SourceEntries: []ContextEntry{entry("a", "real source text")},
		TokenCount:    4,
		CharCount:     16,
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	result, err := asm.Assemble(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.TokenCount)
	assert.Equal(t, StateReady, asm.State())

	current, ok := asm.Current()
	require.True(t, ok)
	assert.Equal(t, result, current)
}

func TestAssembleResolverFailure(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	resolver := &fakeResolver{err: errors.New("db down")}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	_, err := asm.Assemble(context.Background())
	require.ErrorIs(t, err, ErrAssemblyFailed)
	assert.Equal(t, StateFailed, asm.State())

	_, ok := asm.Current()
	assert.False(t, ok, "failed assembly must not expose a result")
}

func TestAssembleRejectsModeLiteralContent(t *testing.T) {
	for _, literal := range []string{"off", "insights", "full", "full content", "Full Content"} {
		store := NewSelectionStore()
		store.SetSourceMode("a", SourceModeFull)
		resolver := &fakeResolver{result: &AssembledContext{
			SourceEntries: []ContextEntry{entry("a", literal)},
		}}
		asm := NewAssembler(store, resolver, "nb", testLogger())

		_, err := asm.Assemble(context.Background())
		require.ErrorIs(t, err, ErrAssemblyFailed, "literal %q must fail assembly", literal)
	}
}

func TestAssembleRejectsEmptyContent(t *testing.T) {
	store := NewSelectionStore()
	store.SetNoteMode("n", NoteModeFull)
	resolver := &fakeResolver{result: &AssembledContext{
		NoteEntries: []ContextEntry{entry("n", "   ")},
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	_, err := asm.Assemble(context.Background())
	require.ErrorIs(t, err, ErrAssemblyFailed)
}

func TestAssembleDiscardsStaleResult(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	gate := make(chan struct{})
	started := make(chan struct{})
	resolver := &fakeResolver{
		result:  &AssembledContext{SourceEntries: []ContextEntry{entry("a", "old text")}},
		gate:    gate,
		started: started,
	}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	errs := make(chan error, 1)
	go func() {
		_, err := asm.Assemble(context.Background())
		errs <- err
	}()

	// Supersede the in-flight snapshot, then let the resolver finish.
	<-started
	store.SetSourceMode("a", SourceModeOff)
	close(gate)

	err := <-errs
	require.ErrorIs(t, err, ErrStaleSuperseded)

	_, ok := asm.Current()
	assert.False(t, ok, "stale result must never be applied")
}

func TestReadyInvalidatedByNewerSelection(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	resolver := &fakeResolver{result: &AssembledContext{
		SourceEntries: []ContextEntry{entry("a", "text")},
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	_, err := asm.Assemble(context.Background())
	require.NoError(t, err)
	_, ok := asm.Current()
	require.True(t, ok)

	store.SetSourceMode("a", SourceModeInsights)

	_, ok = asm.Current()
	assert.False(t, ok, "Ready is provisional, one toggle invalidates it")
	assert.Equal(t, StateIdle, asm.State())
}

func TestAssembleSendsActiveRequestOnly(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("on", SourceModeFull)
	store.SetSourceMode("off", SourceModeOff)

	resolver := &fakeResolver{result: &AssembledContext{
		SourceEntries: []ContextEntry{entry("on", "text")},
	}}
	asm := NewAssembler(store, resolver, "nb", testLogger())

	_, err := asm.Assemble(context.Background())
	require.NoError(t, err)
	assert.Contains(t, resolver.lastCfg.SourceModes, "on")
	assert.NotContains(t, resolver.lastCfg.SourceModes, "off")
}
