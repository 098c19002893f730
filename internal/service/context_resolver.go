package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"research-chat-be/internal/repository/contract"
	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/citation"
	"research-chat-be/pkg/lexical"
	"research-chat-be/pkg/utils"

	"github.com/google/uuid"
)

// ContextResolver turns a context selection into real content straight from
// the database. It is the only place assembled context comes from: there is
// no fallback path that substitutes mode names or placeholders when a lookup
// goes wrong, a miss fails the whole assembly instead.
type ContextResolver struct {
	sourceRepo contract.ISourceRepository
	noteRepo   contract.INoteRepository
}

func NewContextResolver(sourceRepo contract.ISourceRepository, noteRepo contract.INoteRepository) *ContextResolver {
	return &ContextResolver{
		sourceRepo: sourceRepo,
		noteRepo:   noteRepo,
	}
}

// Resolve implements assembly.ContentResolver. Entries are ordered by id so
// the same selection always produces the same prompt.
func (r *ContextResolver) Resolve(ctx context.Context, notebookID string, cfg assembly.ContextConfig) (*assembly.AssembledContext, error) {
	notebook, err := uuid.Parse(notebookID)
	if err != nil {
		return nil, fmt.Errorf("invalid notebook id %q: %w", notebookID, err)
	}

	result := &assembly.AssembledContext{}

	for _, id := range sortedKeys(cfg.SourceModes) {
		content, err := r.resolveSource(ctx, notebook, id, cfg.SourceModes[id])
		if err != nil {
			return nil, err
		}
		result.SourceEntries = append(result.SourceEntries, assembly.ContextEntry{
			ID:        id,
			Content:   content,
			CharCount: utf8.RuneCountInString(content),
		})
	}

	for _, id := range sortedKeys(cfg.NoteModes) {
		content, err := r.resolveNote(ctx, notebook, id)
		if err != nil {
			return nil, err
		}
		result.NoteEntries = append(result.NoteEntries, assembly.ContextEntry{
			ID:        id,
			Content:   content,
			CharCount: utf8.RuneCountInString(content),
		})
	}

	for _, e := range result.SourceEntries {
		result.CharCount += e.CharCount
		result.TokenCount += utils.EstimateTokens(e.Content)
	}
	for _, e := range result.NoteEntries {
		result.CharCount += e.CharCount
		result.TokenCount += utils.EstimateTokens(e.Content)
	}

	return result, nil
}

func (r *ContextResolver) resolveSource(ctx context.Context, notebook uuid.UUID, id string, mode assembly.SourceMode) (string, error) {
	sourceId, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid source id %q: %w", id, err)
	}

	source, err := r.sourceRepo.FindByID(ctx, sourceId)
	if err != nil {
		return "", err
	}
	if source == nil || source.NotebookId != notebook {
		return "", fmt.Errorf("source %s: %w", id, citation.ErrEntityNotFound)
	}

	switch mode {
	case assembly.SourceModeFull:
		if strings.TrimSpace(source.FullText) == "" {
			return "", fmt.Errorf("source %s has no extracted text", id)
		}
		return source.FullText, nil

	case assembly.SourceModeInsights:
		insights, err := r.sourceRepo.InsightsBySource(ctx, sourceId)
		if err != nil {
			return "", err
		}
		if len(insights) == 0 {
			return "", fmt.Errorf("source %s has no insights yet", id)
		}
		var sb strings.Builder
		for i, insight := range insights {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString("### ")
			sb.WriteString(insight.InsightType)
			sb.WriteString("\n")
			sb.WriteString(insight.Content)
		}
		return sb.String(), nil
	}

	return "", fmt.Errorf("source %s has unknown mode %q", id, mode)
}

func (r *ContextResolver) resolveNote(ctx context.Context, notebook uuid.UUID, id string) (string, error) {
	noteId, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid note id %q: %w", id, err)
	}

	note, err := r.noteRepo.FindByID(ctx, noteId)
	if err != nil {
		return "", err
	}
	if note == nil || note.NotebookId != notebook {
		return "", fmt.Errorf("note %s: %w", id, citation.ErrEntityNotFound)
	}

	// Note bodies may be rich-text editor JSON; flatten to markdown before
	// they reach the prompt.
	content := lexical.ParseContent(note.Content)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("note %s is empty", id)
	}
	return content, nil
}

// Lookup implements citation.EntityLookup for reference clicks.
func (r *ContextResolver) Lookup(ctx context.Context, kind citation.Kind, id string) (*citation.Entity, error) {
	entityId, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid %s id %q: %w", kind, id, citation.ErrEntityNotFound)
	}

	switch kind {
	case citation.KindSource:
		source, err := r.sourceRepo.FindByID(ctx, entityId)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, citation.ErrEntityNotFound
		}
		return &citation.Entity{Kind: kind, ID: id, Title: source.Title, Snippet: snippet(source.FullText)}, nil

	case citation.KindNote:
		note, err := r.noteRepo.FindByID(ctx, entityId)
		if err != nil {
			return nil, err
		}
		if note == nil {
			return nil, citation.ErrEntityNotFound
		}
		return &citation.Entity{Kind: kind, ID: id, Title: note.Title, Snippet: snippet(lexical.ParseContent(note.Content))}, nil

	case citation.KindSourceInsight:
		insight, err := r.sourceRepo.FindInsightByID(ctx, entityId)
		if err != nil {
			return nil, err
		}
		if insight == nil {
			return nil, citation.ErrEntityNotFound
		}
		return &citation.Entity{Kind: kind, ID: id, Title: insight.InsightType, Snippet: snippet(insight.Content)}, nil

	case citation.KindSourceEmbedding:
		chunk, err := r.sourceRepo.FindEmbeddingByID(ctx, entityId)
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			return nil, citation.ErrEntityNotFound
		}
		return &citation.Entity{
			Kind:    kind,
			ID:      id,
			Title:   fmt.Sprintf("Chunk %d", chunk.ChunkIndex),
			Snippet: snippet(chunk.Content),
		}, nil
	}

	return nil, citation.ErrEntityNotFound
}

const snippetRunes = 200

func snippet(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes]) + "…"
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
