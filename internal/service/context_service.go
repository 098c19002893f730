package service

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"research-chat-be/internal/dto"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/pkg/assembly"
	"research-chat-be/pkg/citation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IContextService interface {
	SetMode(ctx context.Context, req *dto.SetContextModeRequest) (*dto.ContextStateResponse, error)
	GetState(ctx context.Context, sessionId uuid.UUID) (*dto.ContextStateResponse, error)
	GetItems(ctx context.Context, sessionId uuid.UUID) (*dto.GetContextItemsResponse, error)
	ResolveReference(ctx context.Context, sessionId uuid.UUID, kind string, id string) (*dto.ResolveReferenceResponse, error)
}

type contextService struct {
	sessions   *SessionManager
	chatRepo   contract.IChatRepository
	sourceRepo contract.ISourceRepository
	noteRepo   contract.INoteRepository
	resolver   *citation.Resolver
	logger     logger.ILogger
}

func NewContextService(
	sessions *SessionManager,
	chatRepo contract.IChatRepository,
	sourceRepo contract.ISourceRepository,
	noteRepo contract.INoteRepository,
	resolver *citation.Resolver,
	log logger.ILogger,
) IContextService {
	return &contextService{
		sessions:   sessions,
		chatRepo:   chatRepo,
		sourceRepo: sourceRepo,
		noteRepo:   noteRepo,
		resolver:   resolver,
		logger:     log,
	}
}

// entityKey is the canonical store key for an entity: the dashless hex form
// of its uuid, which is also the id format used in prompts and citations.
func entityKey(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

func (s *contextService) SetMode(ctx context.Context, req *dto.SetContextModeRequest) (*dto.ContextStateResponse, error) {
	state, err := s.sessions.Runtime(ctx, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	entityId, err := uuid.Parse(req.EntityId)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid entity id")
	}
	key := entityKey(entityId)

	switch req.EntityKind {
	case "source":
		state.Store.SetSourceMode(key, assembly.SourceMode(req.Mode))
	case "note":
		if req.Mode == string(assembly.SourceModeInsights) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Notes have no insights mode")
		}
		state.Store.SetNoteMode(key, assembly.NoteMode(req.Mode))
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown entity kind")
	}

	cfg, _ := state.Store.Snapshot()
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.UpdateSessionConfig(ctx, req.ChatSessionId, datatypes.JSON(raw)); err != nil {
		return nil, err
	}

	// Rebuild eagerly so the context panel counts refresh without waiting
	// for the next send. A toggle issued while this runs supersedes it; the
	// stale result is discarded inside the assembler.
	sessionId := req.ChatSessionId
	go func() {
		if _, err := state.Assembler.Assemble(context.Background()); err != nil {
			s.logger.Debug("ContextService", "Background assembly did not complete", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}()

	return s.stateResponse(req.ChatSessionId, state.Store, state.Assembler), nil
}

func (s *contextService) GetState(ctx context.Context, sessionId uuid.UUID) (*dto.ContextStateResponse, error) {
	state, err := s.sessions.Runtime(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.stateResponse(sessionId, state.Store, state.Assembler), nil
}

func (s *contextService) stateResponse(sessionId uuid.UUID, store *assembly.SelectionStore, assembler *assembly.Assembler) *dto.ContextStateResponse {
	cfg, _ := store.Snapshot()

	res := &dto.ContextStateResponse{
		ChatSessionId: sessionId,
		SourceModes:   make(map[string]string, len(cfg.SourceModes)),
		NoteModes:     make(map[string]string, len(cfg.NoteModes)),
		State:         string(assembler.State()),
	}
	for id, mode := range cfg.SourceModes {
		res.SourceModes[id] = string(mode)
	}
	for id, mode := range cfg.NoteModes {
		res.NoteModes[id] = string(mode)
	}

	if assembled, ok := assembler.Current(); ok {
		res.TokenCount = assembled.TokenCount
		res.CharCount = assembled.CharCount
	}
	return res
}

func (s *contextService) GetItems(ctx context.Context, sessionId uuid.UUID) (*dto.GetContextItemsResponse, error) {
	state, err := s.sessions.Runtime(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	notebookId, err := uuid.Parse(state.NotebookID)
	if err != nil {
		return nil, err
	}

	sources, err := s.sourceRepo.FindByNotebook(ctx, notebookId)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.FindByNotebook(ctx, notebookId)
	if err != nil {
		return nil, err
	}

	cfg, _ := state.Store.Snapshot()

	res := &dto.GetContextItemsResponse{
		NotebookId: notebookId,
		Items:      make([]dto.ContextItemDTO, 0, len(sources)+len(notes)),
	}
	for _, source := range sources {
		key := entityKey(source.Id)
		mode := string(assembly.SourceModeOff)
		if m, ok := cfg.SourceModes[key]; ok {
			mode = string(m)
		}
		res.Items = append(res.Items, dto.ContextItemDTO{Id: key, Kind: "source", Title: source.Title, Mode: mode})
	}
	for _, note := range notes {
		key := entityKey(note.Id)
		mode := string(assembly.NoteModeOff)
		if m, ok := cfg.NoteModes[key]; ok {
			mode = string(m)
		}
		res.Items = append(res.Items, dto.ContextItemDTO{Id: key, Kind: "note", Title: note.Title, Mode: mode})
	}
	return res, nil
}

func (s *contextService) ResolveReference(ctx context.Context, sessionId uuid.UUID, kind string, id string) (*dto.ResolveReferenceResponse, error) {
	refKind := citation.Kind(kind)
	switch refKind {
	case citation.KindSource, citation.KindNote, citation.KindSourceInsight, citation.KindSourceEmbedding:
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown reference kind")
	}

	entity, ok := s.resolver.Resolve(ctx, sessionId.String(), refKind, id)
	if !ok {
		// Soft failure: the user got a notification, the endpoint just
		// reports that nothing was found.
		return &dto.ResolveReferenceResponse{Found: false, Kind: kind, Id: id}, nil
	}

	return &dto.ResolveReferenceResponse{
		Found:   true,
		Kind:    string(entity.Kind),
		Id:      entity.ID,
		Title:   entity.Title,
		Snippet: entity.Snippet,
	}, nil
}
