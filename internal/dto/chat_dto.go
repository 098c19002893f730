package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	NotebookId uuid.UUID `json:"notebook_id" validate:"required"`
	Title      string    `json:"title"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id         uuid.UUID      `json:"id"`
	Role       string         `json:"role"`
	Chat       string         `json:"chat"`
	CreatedAt  time.Time      `json:"created_at"`
	References []ReferenceDTO `json:"references,omitempty"`
}

// ReferenceDTO is one citation found in an assistant reply
type ReferenceDTO struct {
	Kind     string `json:"kind"`
	EntityId string `json:"entity_id"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id         uuid.UUID      `json:"id"`
	Chat       string         `json:"chat"`
	Role       string         `json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	References []ReferenceDTO `json:"references,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID             `json:"chat_session_id"`
	Sent          *SendChatResponseChat `json:"sent"`
	Reply         *SendChatResponseChat `json:"reply"`
	TokenCount    int                   `json:"token_count"`
	CharCount     int                   `json:"char_count"`
}
