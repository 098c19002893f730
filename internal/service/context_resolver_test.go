package service

import (
	"context"
	"encoding/hex"
	"testing"

	"research-chat-be/internal/entity"
	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/citation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSourceRepo struct {
	sources    map[uuid.UUID]*entity.Source
	insights   map[uuid.UUID][]entity.SourceInsight
	embeddings map[uuid.UUID]*entity.SourceEmbedding
}

func (f *fakeSourceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Source, error) {
	return f.sources[id], nil
}

func (f *fakeSourceRepo) FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Source, error) {
	var out []entity.Source
	for _, s := range f.sources {
		if s.NotebookId == notebookId {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSourceRepo) InsightsBySource(ctx context.Context, sourceId uuid.UUID) ([]entity.SourceInsight, error) {
	return f.insights[sourceId], nil
}

func (f *fakeSourceRepo) FindInsightByID(ctx context.Context, id uuid.UUID) (*entity.SourceInsight, error) {
	for _, list := range f.insights {
		for i := range list {
			if list[i].Id == id {
				return &list[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeSourceRepo) FindEmbeddingByID(ctx context.Context, id uuid.UUID) (*entity.SourceEmbedding, error) {
	return f.embeddings[id], nil
}

func (f *fakeSourceRepo) ReplaceEmbeddings(ctx context.Context, sourceId uuid.UUID, chunks []entity.SourceEmbedding) error {
	return nil
}

type fakeNoteRepo struct {
	notes map[uuid.UUID]*entity.Note
}

func (f *fakeNoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	return f.notes[id], nil
}

func (f *fakeNoteRepo) FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Note, error) {
	var out []entity.Note
	for _, n := range f.notes {
		if n.NotebookId == notebookId {
			out = append(out, *n)
		}
	}
	return out, nil
}

func hexID(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

func newFixture() (*ContextResolver, uuid.UUID, *entity.Source, *entity.Note) {
	notebookId := uuid.New()
	source := &entity.Source{
		Id:         uuid.New(),
		NotebookId: notebookId,
		Title:      "Attention Is All You Need",
		FullText:   "The dominant sequence transduction models are based on recurrent networks.",
	}
	note := &entity.Note{
		Id:         uuid.New(),
		NotebookId: notebookId,
		Title:      "Reading notes",
		Content:    "Transformers drop recurrence entirely.",
	}

	sourceRepo := &fakeSourceRepo{
		sources: map[uuid.UUID]*entity.Source{source.Id: source},
		insights: map[uuid.UUID][]entity.SourceInsight{
			source.Id: {
				{Id: uuid.New(), SourceId: source.Id, InsightType: "summary", Content: "Attention replaces recurrence."},
				{Id: uuid.New(), SourceId: source.Id, InsightType: "key_topics", Content: "attention, transduction"},
			},
		},
		embeddings: map[uuid.UUID]*entity.SourceEmbedding{},
	}
	noteRepo := &fakeNoteRepo{notes: map[uuid.UUID]*entity.Note{note.Id: note}}

	return NewContextResolver(sourceRepo, noteRepo), notebookId, source, note
}

func TestResolveFullSource(t *testing.T) {
	resolver, notebookId, source, _ := newFixture()

	cfg := assembly.ContextConfig{
		SourceModes: map[string]assembly.SourceMode{hexID(source.Id): assembly.SourceModeFull},
	}
	result, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.NoError(t, err)
	require.Len(t, result.SourceEntries, 1)
	assert.Equal(t, source.FullText, result.SourceEntries[0].Content)
	assert.Equal(t, len([]rune(source.FullText)), result.SourceEntries[0].CharCount)
	assert.Greater(t, result.TokenCount, 0)
	assert.Equal(t, result.SourceEntries[0].CharCount, result.CharCount)
}

func TestResolveInsightsJoined(t *testing.T) {
	resolver, notebookId, source, _ := newFixture()

	cfg := assembly.ContextConfig{
		SourceModes: map[string]assembly.SourceMode{hexID(source.Id): assembly.SourceModeInsights},
	}
	result, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.NoError(t, err)
	require.Len(t, result.SourceEntries, 1)
	content := result.SourceEntries[0].Content
	assert.Contains(t, content, "### summary\nAttention replaces recurrence.")
	assert.Contains(t, content, "### key_topics\nattention, transduction")
}

func TestResolveMissingSourceFails(t *testing.T) {
	resolver, notebookId, _, _ := newFixture()

	cfg := assembly.ContextConfig{
		SourceModes: map[string]assembly.SourceMode{hexID(uuid.New()): assembly.SourceModeFull},
	}
	_, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.ErrorIs(t, err, citation.ErrEntityNotFound)
}

func TestResolveForeignNotebookSourceFails(t *testing.T) {
	resolver, _, source, _ := newFixture()

	cfg := assembly.ContextConfig{
		SourceModes: map[string]assembly.SourceMode{hexID(source.Id): assembly.SourceModeFull},
	}
	_, err := resolver.Resolve(context.Background(), uuid.New().String(), cfg)
	require.ErrorIs(t, err, citation.ErrEntityNotFound)
}

func TestResolveNoteLexicalContent(t *testing.T) {
	resolver, notebookId, _, note := newFixture()
	note.Content = `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"flattened"}]}]}}`

	cfg := assembly.ContextConfig{
		NoteModes: map[string]assembly.NoteMode{hexID(note.Id): assembly.NoteModeFull},
	}
	result, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.NoError(t, err)
	require.Len(t, result.NoteEntries, 1)
	assert.Contains(t, result.NoteEntries[0].Content, "flattened")
	assert.NotContains(t, result.NoteEntries[0].Content, `"root"`)
}

func TestResolveDeterministicOrdering(t *testing.T) {
	resolver, notebookId, source, note := newFixture()

	cfg := assembly.ContextConfig{
		SourceModes: map[string]assembly.SourceMode{hexID(source.Id): assembly.SourceModeFull},
		NoteModes:   map[string]assembly.NoteMode{hexID(note.Id): assembly.NoteModeFull},
	}
	first, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), notebookId.String(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookupKinds(t *testing.T) {
	resolver, _, source, note := newFixture()

	got, err := resolver.Lookup(context.Background(), citation.KindSource, hexID(source.Id))
	require.NoError(t, err)
	assert.Equal(t, source.Title, got.Title)
	assert.NotEmpty(t, got.Snippet)

	got, err = resolver.Lookup(context.Background(), citation.KindNote, hexID(note.Id))
	require.NoError(t, err)
	assert.Equal(t, note.Title, got.Title)

	_, err = resolver.Lookup(context.Background(), citation.KindSource, hexID(uuid.New()))
	require.ErrorIs(t, err, citation.ErrEntityNotFound)

	_, err = resolver.Lookup(context.Background(), citation.KindSourceEmbedding, "not-a-uuid")
	require.ErrorIs(t, err, citation.ErrEntityNotFound)
}
