package dto

import "github.com/google/uuid"

// SetContextModeRequest toggles the inclusion mode for one entity in a
// session's context selection
type SetContextModeRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	EntityKind    string    `json:"entity_kind" validate:"required,oneof=source note"`
	EntityId      string    `json:"entity_id" validate:"required"`
	Mode          string    `json:"mode" validate:"required,oneof=off insights full"`
}

type ContextStateResponse struct {
	ChatSessionId uuid.UUID         `json:"chat_session_id"`
	SourceModes   map[string]string `json:"source_modes"`
	NoteModes     map[string]string `json:"note_modes"`
	State         string            `json:"state"`
	// Raw counts of the last Ready assembly; zero when no assembly is
	// current. Display formatting (K/M suffixes) is the client's concern.
	TokenCount int `json:"token_count"`
	CharCount  int `json:"char_count"`
}

// ContextItemDTO is one toggleable entity in the context panel
type ContextItemDTO struct {
	Id    string `json:"id"`
	Kind  string `json:"kind"` // "source" | "note"
	Title string `json:"title"`
	Mode  string `json:"mode"`
}

type GetContextItemsResponse struct {
	NotebookId uuid.UUID        `json:"notebook_id"`
	Items      []ContextItemDTO `json:"items"`
}

type ResolveReferenceResponse struct {
	Found   bool   `json:"found"`
	Kind    string `json:"kind"`
	Id      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}
