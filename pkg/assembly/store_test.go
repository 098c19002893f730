package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreGenerationBumpsOnEveryMutation(t *testing.T) {
	store := NewSelectionStore()
	assert.Equal(t, uint64(0), store.Generation())

	store.SetSourceMode("a", SourceModeFull)
	store.SetSourceMode("a", SourceModeInsights)
	store.SetNoteMode("n", NoteModeFull)
	assert.Equal(t, uint64(3), store.Generation())
}

func TestStoreSnapshotIsIndependent(t *testing.T) {
	store := NewSelectionStore()
	store.SetSourceMode("a", SourceModeFull)

	cfg, gen := store.Snapshot()
	assert.Equal(t, uint64(1), gen)

	// Mutating the snapshot must not leak back into the store.
	cfg.SourceModes["a"] = SourceModeOff
	cfg.SourceModes["b"] = SourceModeFull

	latest, _ := store.Snapshot()
	assert.Equal(t, SourceModeFull, latest.SourceModes["a"])
	assert.NotContains(t, latest.SourceModes, "b")
}

func TestStoreSeedFromConfig(t *testing.T) {
	seed := ContextConfig{
		SourceModes: map[string]SourceMode{"a": SourceModeInsights},
		NoteModes:   map[string]NoteMode{"n": NoteModeFull},
	}
	store := NewSelectionStoreFromConfig(seed)

	cfg, gen := store.Snapshot()
	assert.Equal(t, uint64(0), gen)
	assert.Equal(t, SourceModeInsights, cfg.SourceModes["a"])
	assert.Equal(t, NoteModeFull, cfg.NoteModes["n"])
}

func TestActiveRequestDropsOffEntries(t *testing.T) {
	cfg := ContextConfig{
		SourceModes: map[string]SourceMode{
			"on":  SourceModeFull,
			"off": SourceModeOff,
		},
		NoteModes: map[string]NoteMode{
			"n-on":  NoteModeFull,
			"n-off": NoteModeOff,
		},
	}

	req := cfg.ActiveRequest()
	assert.Equal(t, map[string]SourceMode{"on": SourceModeFull}, req.SourceModes)
	assert.Equal(t, map[string]NoteMode{"n-on": NoteModeFull}, req.NoteModes)
	assert.False(t, cfg.IsEmpty())

	allOff := ContextConfig{SourceModes: map[string]SourceMode{"x": SourceModeOff}}
	assert.True(t, allOff.IsEmpty())
}
